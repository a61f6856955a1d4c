package telegram

import (
	"encoding/json"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendMessage delivers a Markdown message to an advisor chat with the main
// keyboard attached. Send failures are logged only.
func (h *BotHandler) sendMessage(chatID int64, text string) {
	if _, err := h.sendText(chatID, text, tgbotapi.ModeMarkdown, mainKeyboard(), 0); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// sendToUpline posts into the upline group, honoring the forum topic when
// one is configured.
func (h *BotHandler) sendToUpline(text string) error {
	if h.uplineChatID == 0 {
		return fmt.Errorf("upline chat not configured")
	}
	_, err := h.sendText(h.uplineChatID, text, tgbotapi.ModeMarkdown, nil, h.uplineThreadID)
	return err
}

// sendText sends a message with optional parseMode/replyMarkup and supports
// forum topics via threadID. The library's Chattable types cannot carry
// message_thread_id, so the topic path goes through MakeRequest directly.
func (h *BotHandler) sendText(chatID int64, text, parseMode string, replyMarkup interface{}, threadID int) (*tgbotapi.Message, error) {
	if h.bot == nil {
		return nil, fmt.Errorf("telegram bot is nil")
	}

	if threadID > 0 {
		params := make(tgbotapi.Params)
		params.AddNonZero64("chat_id", chatID)
		params.AddNonZero("message_thread_id", threadID)
		params.AddNonEmpty("text", text)
		params.AddNonEmpty("parse_mode", parseMode)
		if replyMarkup != nil {
			if err := params.AddInterface("reply_markup", replyMarkup); err != nil {
				return nil, err
			}
		}
		resp, err := h.bot.MakeRequest("sendMessage", params)
		if err != nil {
			return nil, err
		}
		var msg tgbotapi.Message
		if err := json.Unmarshal(resp.Result, &msg); err != nil {
			return nil, err
		}
		return &msg, nil
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	sent, err := h.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

func (h *BotHandler) sendTyping(chatID int64) {
	if h.bot == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := h.bot.Request(action); err != nil {
		log.Printf("Error sending typing action to chat %d: %v", chatID, err)
	}
}
