// Package healthtag maps free-form Vietnamese symptom text to canonical
// health-condition tags used as the unit of relevance scoring.
package healthtag

import (
	"sort"
	"strings"

	"github.com/greenwayvn/advisor-bot/internal/normalize"
)

// staticKeywordTags is the hand-curated keyword layer. It is independent of
// the catalog data; the structured symptom map from symptoms_map.json is
// layered on top of it at startup.
var staticKeywordTags = map[string]string{
	"tiểu đường":      "tieu_duong",
	"dai thao duong":  "tieu_duong",
	"đái tháo đường":  "tieu_duong",
	"duong huyet":     "tieu_duong",
	"đường huyết":     "tieu_duong",
	"da day":          "da_day",
	"dạ dày":          "da_day",
	"bao tu":          "da_day",
	"bao tử":          "da_day",
	"trao nguoc":      "da_day",
	"trào ngược":      "da_day",
	"o chua":          "da_day",
	"ợ chua":          "da_day",
	"tieu hoa":        "tieu_hoa",
	"tiêu hóa":        "tieu_hoa",
	"tieu hoá":        "tieu_hoa",
	"tao bon":         "tieu_hoa",
	"táo bón":         "tieu_hoa",
	"gan":             "gan",
	"men gan":         "gan",
	"gan nhiem mo":    "gan",
	"gan nhiễm mỡ":    "gan",
	"xuong khop":      "xuong_khop",
	"xương khớp":      "xuong_khop",
	"dau khop":        "xuong_khop",
	"đau khớp":        "xuong_khop",
	"gout":            "xuong_khop",
	"huyet ap":        "tim_mach",
	"huyết áp":        "tim_mach",
	"tim mach":        "tim_mach",
	"tim mạch":        "tim_mach",
	"thai doc":        "thai_doc",
	"thải độc":        "thai_doc",
	"detox":           "thai_doc",
	"ung thu":         "ung_thu",
	"ung thư":         "ung_thu",
}

// Dictionary is the combined normalized lookup, built once at startup and
// read-only afterwards.
type Dictionary struct {
	symptoms map[string][]string // normalized symptom phrase -> tags
	keywords map[string]string   // normalized keyword -> tag
}

// NewDictionary folds the structured symptom map and the static keyword layer
// into one pre-normalized lookup. symptomMap may be nil.
func NewDictionary(symptomMap map[string][]string) *Dictionary {
	d := &Dictionary{
		symptoms: make(map[string][]string, len(symptomMap)),
		keywords: make(map[string]string, len(staticKeywordTags)),
	}
	for phrase, tags := range symptomMap {
		key := normalize.Fold(phrase)
		if key == "" || len(tags) == 0 {
			continue
		}
		kept := make([]string, 0, len(tags))
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			d.symptoms[key] = append(d.symptoms[key], kept...)
		}
	}
	for kw, tag := range staticKeywordTags {
		if key := normalize.Fold(kw); key != "" {
			d.keywords[key] = tag
		}
	}
	return d
}

// Extract returns the set of tags whose dictionary phrase is contained in the
// normalized text. Both layers contribute; the result is sorted for
// determinism and carries no ranking.
func (d *Dictionary) Extract(text string) []string {
	nt := normalize.Fold(text)
	if nt == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	for phrase, ts := range d.symptoms {
		if strings.Contains(nt, phrase) {
			for _, t := range ts {
				add(t)
			}
		}
	}
	for kw, tag := range d.keywords {
		if strings.Contains(nt, kw) {
			add(tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// ExtractFromAll unions Extract over several phrases.
func (d *Dictionary) ExtractFromAll(phrases []string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, ph := range phrases {
		for _, t := range d.Extract(ph) {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
