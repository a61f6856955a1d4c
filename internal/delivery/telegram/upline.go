package telegram

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	// replyCommandRe matches "/reply <chat_id> body", body may span lines.
	replyCommandRe = regexp.MustCompile(`(?is)^/reply\s+(-?\d+)\s+(.+)`)

	// chatIDLineRe recovers the advisor chat id from the forwarded request
	// when the upline answers with a plain Telegram reply instead.
	chatIDLineRe = regexp.MustCompile("chat_id:\\s*`(-?\\d+)`")
)

// handleUplineMessage bridges an upline answer back to the advisor it
// belongs to. Two addressing forms are accepted; anything else in the group
// is ignored.
func (h *BotHandler) handleUplineMessage(ctx context.Context, message *tgbotapi.Message) {
	targetChatID, body := parseUplineReply(message)
	if targetChatID == 0 || body == "" {
		return
	}

	text, err := h.chatUseCase.RelayUplineReply(ctx, targetChatID, displayName(message.From), body)
	if err != nil {
		log.Printf("Upline relay failed for chat %d: %v", targetChatID, err)
		return
	}
	h.sendMessage(targetChatID, text)
}

// parseUplineReply extracts the target advisor chat and the answer body.
func parseUplineReply(message *tgbotapi.Message) (int64, string) {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return 0, ""
	}

	if m := replyCommandRe.FindStringSubmatch(text); m != nil {
		chatID, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, ""
		}
		return chatID, strings.TrimSpace(m[2])
	}

	if message.ReplyToMessage != nil {
		if m := chatIDLineRe.FindStringSubmatch(message.ReplyToMessage.Text); m != nil {
			chatID, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return 0, ""
			}
			return chatID, text
		}
	}

	return 0, ""
}
