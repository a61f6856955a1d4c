package entity

import "strings"

// Intent labels what the advisor is asking for. The set mirrors the labels
// the AI classifier is allowed to return; the rule-based classifier produces
// the same labels so both paths are interchangeable.
type Intent string

const (
	IntentStart             Intent = "start"
	IntentBuyPayment        Intent = "buy_payment"
	IntentEscalation        Intent = "business_escalation"
	IntentEscalationDetail  Intent = "business_escalation_detail"
	IntentChannels          Intent = "channels"
	IntentComboHealth       Intent = "combo_health"
	IntentProductInfo       Intent = "product_info"
	IntentProductByCode     Intent = "product_by_code"
	IntentHealthProducts    Intent = "health_products"
	IntentMenuCombo         Intent = "menu_combo"
	IntentMenuProductSearch Intent = "menu_product_search"
	IntentMenuBuyPayment    Intent = "menu_buy_payment"
	IntentMenuEscalation    Intent = "menu_business_escalation"
	IntentMenuChannels      Intent = "menu_channels"
	IntentUplineReply       Intent = "upline_reply"
	IntentEscalationCancel  Intent = "business_escalation_cancel"
	IntentFallback          Intent = "fallback"
)

// AllIntents lists every label the classifier may return for a fresh message.
// IntentEscalationDetail, IntentEscalationCancel and IntentUplineReply are
// assigned by the engine itself, never by classification.
var AllIntents = []Intent{
	IntentStart,
	IntentBuyPayment,
	IntentEscalation,
	IntentChannels,
	IntentComboHealth,
	IntentProductInfo,
	IntentProductByCode,
	IntentHealthProducts,
	IntentMenuCombo,
	IntentMenuProductSearch,
	IntentMenuBuyPayment,
	IntentMenuEscalation,
	IntentMenuChannels,
	IntentFallback,
}

// ParseIntent validates a classifier label. Unknown labels yield ok=false so
// the caller can fall back to rule-based classification.
func ParseIntent(label string) (Intent, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, in := range AllIntents {
		if string(in) == label {
			return in, true
		}
	}
	return IntentFallback, false
}

// QuerySignals is the optional structured output of the AI goal extractor.
type QuerySignals struct {
	SymptomPhrases []string `json:"symptom_phrases"`
	GoalPhrases    []string `json:"goal_phrases"`
}
