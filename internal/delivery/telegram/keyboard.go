package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Button labels the rule-based classifier matches on. Keep in sync with
// internal/usecase/rules.go when changing the wording.
const (
	buttonCombo         = "🧩 Combo theo vấn đề sức khỏe"
	buttonProductSearch = "🔎 Tra cứu sản phẩm"
	buttonBuyPayment    = "🛒 Hướng dẫn mua hàng"
	buttonEscalation    = "☎️ Kết nối tuyến trên"
	buttonChannels      = "📢 Kênh & Fanpage"
)

// mainKeyboard is the persistent advisor keyboard attached to every reply.
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCombo),
			tgbotapi.NewKeyboardButton(buttonProductSearch),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonBuyPayment),
			tgbotapi.NewKeyboardButton(buttonEscalation),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonChannels),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}
