// Package telegram is the delivery layer: long-polling update loop, the
// persistent advisor keyboard, the worker pool and the upline group bridge.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
	"github.com/greenwayvn/advisor-bot/internal/escalation"
	"github.com/greenwayvn/advisor-bot/internal/usecase"
)

// BotHandler owns the Telegram connection and routes updates: upline-group
// messages go to the reply bridge, everything else through the worker pool
// into the chat use case.
type BotHandler struct {
	bot            *tgbotapi.BotAPI
	uplineChatID   int64
	uplineThreadID int

	chatUseCase usecase.ChatUseCase
	auditRepo   repository.AuditRepository
	workerPool  *workerPool
}

// NewBotHandler connects to Telegram. The chat use case is injected later
// via SetChatUseCase because the escalation sink needs the handler first.
func NewBotHandler(token string, uplineChatID int64, uplineThreadID int, auditRepo repository.AuditRepository, workerCount int) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	handler := &BotHandler{
		bot:            bot,
		uplineChatID:   uplineChatID,
		uplineThreadID: uplineThreadID,
		auditRepo:      auditRepo,
	}
	handler.workerPool = newWorkerPool(handler, workerCount)

	log.Printf("Authorized on account %s", bot.Self.UserName)
	return handler, nil
}

// SetChatUseCase wires the business logic in. Must be called before Start.
func (h *BotHandler) SetChatUseCase(uc usecase.ChatUseCase) {
	h.chatUseCase = uc
}

// UplineSink returns the escalation sink delivering into the upline group.
func (h *BotHandler) UplineSink() escalation.Sink {
	return &uplineSink{handler: h}
}

// Start runs the long-poll loop until ctx is cancelled.
func (h *BotHandler) Start(ctx context.Context) error {
	if h.chatUseCase == nil {
		return fmt.Errorf("chat use case not set")
	}

	h.workerPool.start(ctx)
	defer h.workerPool.shutdown()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	log.Println("Bot started, waiting for messages...")
	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.routeUpdate(ctx, update)
		}
	}
}

func (h *BotHandler) routeUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	if message == nil || message.Chat == nil {
		return
	}

	// Messages inside the upline group are admin commands or replies to
	// forwarded requests, never advisor queries.
	if h.uplineChatID != 0 && message.Chat.ID == h.uplineChatID {
		if strings.HasPrefix(message.Text, "/export") {
			h.handleExportCommand(ctx, message)
			return
		}
		h.handleUplineMessage(ctx, message)
		return
	}

	// The audit log carries other advisors' conversations; /export is an
	// upline-group command only.
	if strings.HasPrefix(message.Text, "/export") {
		log.Printf("Denied /export from chat %d", message.Chat.ID)
		h.sendMessage(message.Chat.ID, "❌ Lệnh này chỉ dùng được trong nhóm tuyến trên ạ.")
		return
	}

	req := &messageRequest{
		ctx:      ctx,
		chatID:   message.Chat.ID,
		userName: displayName(message.From),
		text:     message.Text,
	}
	h.workerPool.submit(req)
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.UserName
	}
	return name
}
