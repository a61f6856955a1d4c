// Package match scores and ranks catalog entities against a parsed query.
package match

import (
	"sort"
	"strings"

	"github.com/greenwayvn/advisor-bot/internal/catalog"
	"github.com/greenwayvn/advisor-bot/internal/domain/constants"
	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/normalize"
)

// Scoring weights. Tag overlap dominates, alias containment nudges, a bare
// product code in the query beats everything, and unavailable products are
// pushed down one point.
const (
	tagOverlapWeight  = 2
	aliasContainBonus = 1
	codeInQueryBonus  = 3
	outOfStockPenalty = 1
)

// Query is the parsed inbound question. SymptomPhrases/GoalPhrases come from
// the external classifier when it is available; with both empty the tag set
// is derived from Text directly.
type Query struct {
	Text           string
	SymptomPhrases []string
	GoalPhrases    []string
}

// Options bounds the result lists. Zero values fall back to the defaults.
type Options struct {
	MaxCombos   int
	MaxProducts int
}

// ProductMatch is one ranked product with its final score.
type ProductMatch struct {
	Product entity.Product
	Score   int
}

// ComboMatch is one ranked combo with its final score.
type ComboMatch struct {
	Combo entity.Combo
	Score int
}

// Result carries both ranked lists. Empty lists are a normal outcome, not an
// error; the caller prompts the user for more detail.
type Result struct {
	Combos   []ComboMatch
	Products []ProductMatch
}

// Empty reports whether nothing matched in either list.
func (r Result) Empty() bool {
	return len(r.Combos) == 0 && len(r.Products) == 0
}

// Rank scores every product and combo against the query, discards scores
// <= 0, sorts stably by score descending (catalog order breaks ties) and
// truncates to the option bounds. If the tag-aware pass matches nothing at
// all, a pure alias-containment pass over the raw text runs before giving up.
func Rank(q Query, cat *catalog.Catalog, opts Options) Result {
	if opts.MaxCombos <= 0 {
		opts.MaxCombos = constants.DefaultMaxCombos
	}
	if opts.MaxProducts <= 0 {
		opts.MaxProducts = constants.DefaultMaxProducts
	}

	queryTags := deriveTags(q, cat)
	nt := normalize.Fold(q.Text)
	compact := strings.ReplaceAll(nt, " ", "")

	res := Result{}
	for _, c := range cat.Combos {
		score := tagOverlapWeight * intersectCount(c.HealthTags, queryTags)
		if anyAliasContained(c.Aliases, nt) {
			score += aliasContainBonus
		}
		if score > 0 {
			res.Combos = append(res.Combos, ComboMatch{Combo: c, Score: score})
		}
	}
	for _, p := range cat.Products {
		score := tagOverlapWeight * intersectCount(p.HealthTags, queryTags)
		if anyAliasContained(p.Aliases, nt) {
			score += aliasContainBonus
		}
		if p.Code != "" && compact != "" && strings.Contains(compact, p.Code) {
			score += codeInQueryBonus
		}
		if p.OutOfStock() {
			score -= outOfStockPenalty
		}
		if score > 0 {
			res.Products = append(res.Products, ProductMatch{Product: p, Score: score})
		}
	}

	if res.Empty() {
		res = aliasOnlyFallback(nt, cat)
	}

	sort.SliceStable(res.Combos, func(i, j int) bool {
		return res.Combos[i].Score > res.Combos[j].Score
	})
	sort.SliceStable(res.Products, func(i, j int) bool {
		return res.Products[i].Score > res.Products[j].Score
	})

	if len(res.Combos) > opts.MaxCombos {
		res.Combos = res.Combos[:opts.MaxCombos]
	}
	if len(res.Products) > opts.MaxProducts {
		res.Products = res.Products[:opts.MaxProducts]
	}
	return res
}

// deriveTags unions the tags of every supplied symptom/goal phrase, or falls
// back to extracting from the raw text when the classifier gave nothing.
func deriveTags(q Query, cat *catalog.Catalog) []string {
	phrases := make([]string, 0, len(q.SymptomPhrases)+len(q.GoalPhrases))
	phrases = append(phrases, q.SymptomPhrases...)
	phrases = append(phrases, q.GoalPhrases...)
	if len(phrases) > 0 {
		return cat.Tags.ExtractFromAll(phrases)
	}
	return cat.Tags.Extract(q.Text)
}

// aliasOnlyFallback ignores tags and the stock penalty: any entity whose
// alias is contained in the query scores 1, keeping catalog order.
func aliasOnlyFallback(nt string, cat *catalog.Catalog) Result {
	res := Result{}
	for _, c := range cat.Combos {
		if anyAliasContained(c.Aliases, nt) {
			res.Combos = append(res.Combos, ComboMatch{Combo: c, Score: aliasContainBonus})
		}
	}
	for _, p := range cat.Products {
		if anyAliasContained(p.Aliases, nt) {
			res.Products = append(res.Products, ProductMatch{Product: p, Score: aliasContainBonus})
		}
	}
	return res
}

func anyAliasContained(aliases []string, nt string) bool {
	if nt == "" {
		return false
	}
	for _, a := range aliases {
		na := normalize.Fold(a)
		if na != "" && strings.Contains(nt, na) {
			return true
		}
	}
	return false
}

func intersectCount(candidate, query []string) int {
	if len(candidate) == 0 || len(query) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(candidate))
	for _, t := range candidate {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range query {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
