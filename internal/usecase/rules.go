package usecase

import (
	"regexp"
	"strings"

	"github.com/greenwayvn/advisor-bot/internal/catalog"
	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/normalize"
)

// codeRe captures product codes: a leading zero plus 4-5 more digits.
var codeRe = regexp.MustCompile(`\b0\d{4,5}\b`)

var (
	buyKeywords = []string{
		"mua hàng", "đặt hàng", "đặt mua", "thanh toán", "trả tiền", "ship", "giao hàng",
	}
	escalationKeywords = []string{
		"tuyến trên", "leader", "sponsor", "upline", "khó trả lời", "hỏi giúp",
	}
	channelKeywords = []string{
		"kênh", "kenh", "fanpage", "facebook", "page", "kênh chính thức",
	}
	healthKeywords = []string{
		"tiểu đường", "đái tháo đường", "đường huyết",
		"dạ dày", "bao tử", "trào ngược", "ợ chua",
		"cơ xương khớp", "đau khớp", "gout",
		"huyết áp", "tim mạch",
		"gan", "men gan", "gan nhiễm mỡ",
		"tiêu hóa", "rối loạn tiêu hóa", "táo bón",
	}
	productInfoKeywords = []string{
		"thành phần", "tác dụng", "lợi ích", "cách dùng", "công dụng", "uống như thế nào",
	}
)

// extractCode returns the first product code found in the text, or "".
func extractCode(text string) string {
	return codeRe.FindString(text)
}

// classifyIntentRules is the deterministic classifier. It mirrors the label
// set the AI classifier uses, so the two paths are interchangeable; the menu
// buttons are matched first because their text would otherwise trip the
// keyword checks.
func classifyIntentRules(text string, cat *catalog.Catalog) entity.Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.Contains(t, "combo theo vấn đề"):
		return entity.IntentMenuCombo
	case strings.Contains(t, "tra cứu sản phẩm"):
		return entity.IntentMenuProductSearch
	case strings.Contains(t, "hướng dẫn mua hàng"):
		return entity.IntentMenuBuyPayment
	case strings.Contains(t, "kết nối tuyến trên"):
		return entity.IntentMenuEscalation
	case strings.Contains(t, "kênh & fanpage"), strings.Contains(t, "kênh & fan"), strings.Contains(t, "kênh và fanpage"):
		return entity.IntentMenuChannels
	}

	if strings.HasPrefix(t, "/start") || strings.Contains(t, "bắt đầu") || strings.Contains(t, "hello") {
		return entity.IntentStart
	}

	if code := extractCode(t); code != "" {
		if _, ok := cat.Product(code); ok {
			return entity.IntentProductByCode
		}
	}

	if containsAny(t, buyKeywords) {
		return entity.IntentBuyPayment
	}
	if containsAny(t, escalationKeywords) {
		return entity.IntentEscalation
	}
	if containsAny(t, channelKeywords) {
		return entity.IntentChannels
	}
	if containsAny(t, healthKeywords) {
		return entity.IntentComboHealth
	}
	if containsAny(t, productInfoKeywords) {
		return entity.IntentProductInfo
	}

	// Last resort before fallback: probe the alias indices directly.
	nt := normalize.Fold(text)
	if nt != "" {
		if anyIndexedAliasContained(cat.ComboAliasIndex, nt) {
			return entity.IntentComboHealth
		}
		if anyIndexedAliasContained(cat.AliasIndex, nt) {
			return entity.IntentProductInfo
		}
	}

	return entity.IntentFallback
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// anyIndexedAliasContained scans the pre-normalized alias index for a
// substring hit. Single-character aliases are skipped, they match far too
// eagerly.
func anyIndexedAliasContained(index map[string]map[string]struct{}, nt string) bool {
	for alias := range index {
		if len(alias) < 2 {
			continue
		}
		if strings.Contains(nt, alias) {
			return true
		}
	}
	return false
}
