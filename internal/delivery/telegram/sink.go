package telegram

import (
	"context"
	"fmt"

	"github.com/greenwayvn/advisor-bot/internal/escalation"
)

// uplineSink forwards escalation tickets into the upline group. The chat_id
// line lets the upline answer with a plain Telegram reply; see upline.go.
type uplineSink struct {
	handler *BotHandler
}

func (s *uplineSink) Deliver(_ context.Context, ticket escalation.Ticket) error {
	notify := fmt.Sprintf(
		"🔔 *YÊU CẦU HỖ TRỢ TUYẾN TRÊN*\n\n- Từ TVV: *%s* (chat_id: `%d`)\n- Nội dung:\n%s",
		ticket.UserName, ticket.ChatID, ticket.Payload,
	)
	return s.handler.sendToUpline(notify)
}
