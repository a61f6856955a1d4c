package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/healthtag"
)

// Side-file names inside the data directory. products.json and combos.json
// are required; the rest are optional enrichment.
const (
	productsFile = "products.json"
	combosFile   = "combos.json"
	symptomsFile = "symptoms_map.json"
	aliasesFile  = "product_aliases.json"
	tagsInfoFile = "health_tags_info.json"
)

// LoadDir reads the catalog source files from dir. Both the wrapped
// ({"products": [...]}) and the bare-array layouts are accepted, matching
// the files advisors maintain by hand.
func LoadDir(dir string) (Source, error) {
	var src Source

	if err := loadProducts(filepath.Join(dir, productsFile), &src.Products); err != nil {
		return Source{}, fmt.Errorf("load products: %w", err)
	}
	if err := loadCombos(filepath.Join(dir, combosFile), &src.Combos); err != nil {
		return Source{}, fmt.Errorf("load combos: %w", err)
	}

	var err error
	if src.SymptomMap, err = loadSymptomMap(filepath.Join(dir, symptomsFile)); err != nil {
		return Source{}, fmt.Errorf("load symptom map: %w", err)
	}
	if src.AliasOverrides, err = loadAliasOverrides(filepath.Join(dir, aliasesFile)); err != nil {
		return Source{}, fmt.Errorf("load alias overrides: %w", err)
	}
	if src.TagInfo, err = loadTagInfo(filepath.Join(dir, tagsInfoFile)); err != nil {
		return Source{}, fmt.Errorf("load tag info: %w", err)
	}

	return src, nil
}

func loadProducts(path string, out *[]entity.Product) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var wrapped struct {
		Products []entity.Product `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Products != nil {
		*out = wrapped.Products
		return nil
	}
	return json.Unmarshal(data, out)
}

func loadCombos(path string, out *[]entity.Combo) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var wrapped struct {
		Combos []entity.Combo `json:"combos"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Combos != nil {
		*out = wrapped.Combos
		return nil
	}
	return json.Unmarshal(data, out)
}

// loadSymptomMap accepts both value shapes used over time:
// {"symptom": {"health_tags": [...]}} and {"symptom": [...]}.
func loadSymptomMap(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(raw))
	for symptom, val := range raw {
		var tags []string
		if err := json.Unmarshal(val, &tags); err == nil {
			out[symptom] = tags
			continue
		}
		var info struct {
			HealthTags []string `json:"health_tags"`
		}
		if err := json.Unmarshal(val, &info); err != nil {
			return nil, fmt.Errorf("symptom %q: %w", symptom, err)
		}
		out[symptom] = info.HealthTags
	}
	return out, nil
}

// loadAliasOverrides accepts {"by_alias": {...}} or a bare alias map.
func loadAliasOverrides(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		ByAlias map[string][]string `json:"by_alias"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.ByAlias != nil {
		return wrapped.ByAlias, nil
	}
	var bare map[string][]string
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

func loadTagInfo(path string) (map[string]healthtag.TagInfo, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out map[string]healthtag.TagInfo
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
