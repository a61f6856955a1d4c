// Package catalog builds the read-only in-memory catalog the engine ranks
// against: product and combo tables, alias indices and derived health tags.
// Build is a whole-catalog operation run once at startup; the inputs are
// copied, never mutated, and the result needs no locking afterwards.
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/healthtag"
	"github.com/greenwayvn/advisor-bot/internal/normalize"
)

// wordFragmentRe splits display names into word-like alias fragments. Keeps
// accented letters, digits, hyphen and slash, matching the way names like
// "Mega Vita-C / 500" are typed by advisors.
var wordFragmentRe = regexp.MustCompile(`[\p{L}\p{N}\-/]+`)

var innerSpaceRe = regexp.MustCompile(`\s+`)

// Catalog is the immutable output of Build.
type Catalog struct {
	Products []entity.Product
	Combos   []entity.Combo

	// AliasIndex maps a normalized alias to the set of product codes owning
	// it; ComboAliasIndex does the same for combo ids. Many-to-many.
	AliasIndex      map[string]map[string]struct{}
	ComboAliasIndex map[string]map[string]struct{}

	Tags *healthtag.Dictionary

	productIdx map[string]int
	comboIdx   map[string]int
}

// Source is everything the builder consumes, already parsed (see loader.go).
type Source struct {
	Products       []entity.Product
	Combos         []entity.Combo
	SymptomMap     map[string][]string
	AliasOverrides map[string][]string
	TagInfo        map[string]healthtag.TagInfo
}

// Product looks a product up by code.
func (c *Catalog) Product(code string) (entity.Product, bool) {
	i, ok := c.productIdx[code]
	if !ok {
		return entity.Product{}, false
	}
	return c.Products[i], true
}

// Combo looks a combo up by id.
func (c *Catalog) Combo(id string) (entity.Combo, bool) {
	i, ok := c.comboIdx[id]
	if !ok {
		return entity.Combo{}, false
	}
	return c.Combos[i], true
}

// Build enriches and indexes the raw catalog. Entries without an identifier
// are skipped silently; combo items pointing at unknown products stay in the
// combo without inherited fields. Catalog order of the inputs is preserved,
// which later doubles as the ranking tie-break.
func Build(src Source) *Catalog {
	cat := &Catalog{
		AliasIndex:      make(map[string]map[string]struct{}),
		ComboAliasIndex: make(map[string]map[string]struct{}),
		Tags:            healthtag.NewDictionary(src.SymptomMap),
		productIdx:      make(map[string]int),
		comboIdx:        make(map[string]int),
	}

	for _, raw := range src.Products {
		p := raw.Clone()
		p.Code = strings.TrimSpace(strings.TrimLeft(p.Code, "#"))
		if p.Code == "" {
			continue
		}

		p.Aliases = buildAliases(p.Name, p.Aliases, p.Code)

		blob := strings.Join([]string{p.Name, p.BenefitsText, p.IngredientsText, p.UsageText}, " ")
		p.HealthTags = unionTags(p.HealthTags, cat.Tags.Extract(blob))

		cat.productIdx[p.Code] = len(cat.Products)
		cat.Products = append(cat.Products, p)

		indexAliases(cat.AliasIndex, p.Aliases, p.Code)
	}

	for _, raw := range src.Combos {
		c := raw.Clone()
		if c.ID == "" {
			c.ID = normalize.Fold(c.Name)
		}
		if c.ID == "" {
			continue
		}

		c.Aliases = buildAliases(c.Name, c.Aliases, "")

		blob := strings.Join([]string{c.Name, c.HeaderText, c.DurationText}, " ")
		tags := unionTags(c.HealthTags, cat.Tags.Extract(blob))

		for i := range c.Items {
			item := &c.Items[i]
			item.ProductCode = strings.TrimSpace(strings.TrimLeft(item.ProductCode, "#"))
			p, ok := cat.Product(item.ProductCode)
			if !ok {
				continue
			}
			if item.Name == "" {
				item.Name = p.Name
			}
			if item.PriceText == "" {
				item.PriceText = p.PriceText
			}
			if item.ProductURL == "" {
				item.ProductURL = p.ProductURL
			}
			tags = unionTags(tags, p.HealthTags)
		}
		c.HealthTags = tags

		cat.comboIdx[c.ID] = len(cat.Combos)
		cat.Combos = append(cat.Combos, c)

		indexAliases(cat.ComboAliasIndex, c.Aliases, c.ID)
	}

	// Alias overrides only add, they never replace catalog aliases.
	for alias, codes := range src.AliasOverrides {
		na := normalize.Fold(alias)
		if na == "" {
			continue
		}
		for _, code := range codes {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			addAlias(cat.AliasIndex, na, code)
		}
	}

	return cat
}

// buildAliases seeds the alias set with the display name, its lower-cased
// form, its word fragments, any supplied aliases and the identifier, then
// cleans inner whitespace and deduplicates preserving insertion order.
func buildAliases(name string, supplied []string, code string) []string {
	var raw []string
	if name != "" {
		raw = append(raw, name, strings.ToLower(name))
		raw = append(raw, wordFragmentRe.FindAllString(name, -1)...)
	}
	raw = append(raw, supplied...)
	if code != "" {
		raw = append(raw, code)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		a = strings.TrimSpace(innerSpaceRe.ReplaceAllString(a, " "))
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func indexAliases(index map[string]map[string]struct{}, aliases []string, owner string) {
	for _, a := range aliases {
		na := normalize.Fold(a)
		if na == "" {
			continue
		}
		addAlias(index, na, owner)
	}
}

func addAlias(index map[string]map[string]struct{}, alias, owner string) {
	set, ok := index[alias]
	if !ok {
		set = make(map[string]struct{})
		index[alias] = set
	}
	set[owner] = struct{}{}
}

func unionTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, t := range list {
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
