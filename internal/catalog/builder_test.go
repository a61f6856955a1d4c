package catalog

import (
	"testing"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/normalize"
)

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func TestBuildAliasIndexCompleteness(t *testing.T) {
	cat := Build(Source{
		Products: []entity.Product{
			{Code: "#070728", Name: "ANTISWEET Thực phẩm", Aliases: []string{"anti sweet"}},
		},
	})

	p, ok := cat.Product("070728")
	if !ok {
		t.Fatal("product not indexed after marker strip")
	}
	if p.Code != "070728" {
		t.Fatalf("leading marker not stripped: %q", p.Code)
	}

	// The alias index must resolve both the normalized name and the code.
	for _, alias := range []string{p.Name, p.Code, "anti sweet", "ANTISWEET"} {
		na := normalize.Fold(alias)
		owners, ok := cat.AliasIndex[na]
		if !ok {
			t.Fatalf("alias %q (normalized %q) missing from index", alias, na)
		}
		if _, ok := owners["070728"]; !ok {
			t.Fatalf("alias %q does not resolve to product code", alias)
		}
	}
}

func TestBuildSkipsEntriesWithoutIdentifier(t *testing.T) {
	cat := Build(Source{
		Products: []entity.Product{
			{Code: "", Name: "No Code"},
			{Code: "111111", Name: "Kept"},
		},
		Combos: []entity.Combo{
			{ID: "", Name: ""},
		},
	})
	if len(cat.Products) != 1 || cat.Products[0].Code != "111111" {
		t.Fatalf("expected only the entry with a code, got %+v", cat.Products)
	}
	if len(cat.Combos) != 0 {
		t.Fatalf("combo without id and name must be skipped, got %+v", cat.Combos)
	}
}

func TestBuildDerivesProductTagsFromText(t *testing.T) {
	cat := Build(Source{
		Products: []entity.Product{
			{
				Code:         "200100",
				Name:         "Hepatrine",
				BenefitsText: "Hỗ trợ men gan, gan nhiễm mỡ",
				HealthTags:   []string{"thai_doc"},
			},
		},
	})
	p, _ := cat.Product("200100")
	if !containsTag(p.HealthTags, "gan") {
		t.Fatalf("auto-derived tag missing: %v", p.HealthTags)
	}
	if !containsTag(p.HealthTags, "thai_doc") {
		t.Fatalf("declared tag lost: %v", p.HealthTags)
	}
}

func TestBuildComboInheritanceAndBackfill(t *testing.T) {
	src := Source{
		Products: []entity.Product{
			{
				Code:       "070728",
				Name:       "Antisweet",
				PriceText:  "850.000đ",
				ProductURL: "https://example.vn/antisweet",
				HealthTags: []string{"tieu_duong"},
			},
		},
		Combos: []entity.Combo{
			{
				Name:       "Combo đường huyết",
				HealthTags: []string{"thai_doc"},
				Items: []entity.ComboItem{
					{ProductCode: "#070728", DoseText: "2 viên/ngày"},
					{ProductCode: "999999"}, // unresolved reference is tolerated
				},
			},
		},
	}
	cat := Build(src)

	c, ok := cat.Combo(normalize.Fold("Combo đường huyết"))
	if !ok {
		t.Fatal("combo id should default to normalized name")
	}

	// Tag union: declared + derived from name + inherited from product.
	for _, want := range []string{"thai_doc", "tieu_duong"} {
		if !containsTag(c.HealthTags, want) {
			t.Fatalf("combo tags %v missing %q", c.HealthTags, want)
		}
	}

	item := c.Items[0]
	if item.Name != "Antisweet" || item.PriceText != "850.000đ" || item.ProductURL != "https://example.vn/antisweet" {
		t.Fatalf("item not back-filled from product: %+v", item)
	}
	if item.DoseText != "2 viên/ngày" {
		t.Fatalf("existing item field overwritten: %+v", item)
	}
	if c.Items[1].Name != "" {
		t.Fatalf("unresolved item must stay un-enriched: %+v", c.Items[1])
	}
}

func TestBuildTagUnionMonotonicity(t *testing.T) {
	src := Source{
		Products: []entity.Product{
			{Code: "070728", Name: "Antisweet", HealthTags: []string{"tieu_duong"}},
		},
		Combos: []entity.Combo{
			{ID: "combo1", Name: "Combo one", Items: []entity.ComboItem{{ProductCode: "070728"}}},
		},
	}
	before := Build(src)
	c1, _ := before.Combo("combo1")

	src.Products[0].HealthTags = append(src.Products[0].HealthTags, "mien_dich")
	after := Build(src)
	c2, _ := after.Combo("combo1")

	for _, tag := range c1.HealthTags {
		if !containsTag(c2.HealthTags, tag) {
			t.Fatalf("rebuild shrank combo tags: %v -> %v", c1.HealthTags, c2.HealthTags)
		}
	}
	if !containsTag(c2.HealthTags, "mien_dich") {
		t.Fatalf("new product tag not inherited: %v", c2.HealthTags)
	}
}

func TestBuildAliasOverridesOnlyAdd(t *testing.T) {
	cat := Build(Source{
		Products: []entity.Product{
			{Code: "070728", Name: "Antisweet"},
			{Code: "111111", Name: "Other"},
		},
		AliasOverrides: map[string][]string{
			"antisweet":    {"111111"}, // existing alias gains a second owner
			"thuốc tiểu đường": {"070728"},
		},
	})

	owners := cat.AliasIndex["antisweet"]
	if _, ok := owners["070728"]; !ok {
		t.Fatal("override replaced the catalog alias owner")
	}
	if _, ok := owners["111111"]; !ok {
		t.Fatal("override owner not added")
	}

	owners = cat.AliasIndex[normalize.Fold("thuốc tiểu đường")]
	if _, ok := owners["070728"]; !ok {
		t.Fatal("new override alias missing")
	}
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	products := []entity.Product{{Code: "#070728", Name: "Antisweet"}}
	combos := []entity.Combo{{Name: "Combo gan", Items: []entity.ComboItem{{ProductCode: "#070728"}}}}
	Build(Source{Products: products, Combos: combos})

	if products[0].Code != "#070728" {
		t.Fatalf("input product mutated: %+v", products[0])
	}
	if len(products[0].Aliases) != 0 {
		t.Fatalf("input aliases mutated: %+v", products[0].Aliases)
	}
	if combos[0].Items[0].ProductCode != "#070728" || combos[0].Items[0].Name != "" {
		t.Fatalf("input combo mutated: %+v", combos[0].Items[0])
	}
}
