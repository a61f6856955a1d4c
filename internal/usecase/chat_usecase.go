// Package usecase holds the message-handling business logic: intent
// classification, query resolution against the catalog and the escalation
// handshake, independent of the transport that delivers the messages.
package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/greenwayvn/advisor-bot/internal/catalog"
	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
	"github.com/greenwayvn/advisor-bot/internal/escalation"
	"github.com/greenwayvn/advisor-bot/internal/healthtag"
	"github.com/greenwayvn/advisor-bot/internal/match"
	"github.com/greenwayvn/advisor-bot/internal/metrics"
)

// Reply is the handled result for one inbound message. The matched fields
// feed the audit log; empty when the intent produced a static answer.
type Reply struct {
	Text   string
	Intent entity.Intent

	MatchedComboID     string
	MatchedComboName   string
	MatchedProductCode string
	MatchedProductName string
}

// ChatUseCase processes advisor messages and upline replies.
type ChatUseCase interface {
	// ProcessMessage resolves one advisor message into a reply. It never
	// fails for business reasons; an error means the engine itself broke.
	ProcessMessage(ctx context.Context, chatID int64, userName, text string) (Reply, error)

	// RelayUplineReply formats and polishes an upline answer for the advisor
	// chat it belongs to, and records it in the audit log.
	RelayUplineReply(ctx context.Context, targetChatID int64, uplineName, body string) (string, error)
}

// Options tunes the use case.
type Options struct {
	Links        Links
	EnablePolish bool
	Match        match.Options
}

type chatUseCase struct {
	cat       *catalog.Catalog
	labels    *healthtag.LabelSet
	machine   *escalation.Machine
	aiRepo    repository.AIRepository // may be nil
	convRepo  repository.ConversationRepository
	auditRepo repository.AuditRepository
	opts      Options
}

// NewChatUseCase wires the engine together. aiRepo may be nil; every AI path
// degrades to the rule-based equivalent.
func NewChatUseCase(
	cat *catalog.Catalog,
	labels *healthtag.LabelSet,
	machine *escalation.Machine,
	aiRepo repository.AIRepository,
	convRepo repository.ConversationRepository,
	auditRepo repository.AuditRepository,
	opts Options,
) ChatUseCase {
	return &chatUseCase{
		cat:       cat,
		labels:    labels,
		machine:   machine,
		aiRepo:    aiRepo,
		convRepo:  convRepo,
		auditRepo: auditRepo,
		opts:      opts,
	}
}

func (u *chatUseCase) ProcessMessage(ctx context.Context, chatID int64, userName, text string) (Reply, error) {
	if text == "" {
		return Reply{Text: answerTextOnly(), Intent: entity.IntentFallback}, nil
	}

	// Make sure the conversation exists before anything else touches it.
	if _, err := u.convRepo.Get(ctx, chatID); err != nil {
		return Reply{}, fmt.Errorf("conversation lookup: %w", err)
	}

	// An open escalation handshake consumes the message before any
	// classification happens.
	if u.machine.State(chatID) != escalation.StateIdle {
		return u.handleEscalationMessage(ctx, chatID, userName, text)
	}

	intent := u.classify(ctx, text)
	reply := u.resolve(ctx, chatID, intent, text)
	reply.Text = u.maybePolish(ctx, reply.Text)

	u.audit(ctx, chatID, userName, text, reply)
	metrics.MessagesTotal.WithLabelValues(string(reply.Intent)).Inc()
	return reply, nil
}

// handleEscalationMessage feeds an in-progress handshake. Sink failures are
// logged only; the advisor still gets the confirmation so they do not resend
// the same description.
func (u *chatUseCase) handleEscalationMessage(ctx context.Context, chatID int64, userName, text string) (Reply, error) {
	outcome, err := u.machine.Submit(ctx, chatID, userName, text)
	if err != nil {
		log.Printf("escalation forward for chat %d failed: %v", chatID, err)
	}

	var reply Reply
	switch outcome {
	case escalation.OutcomeForwarded:
		metrics.EscalationsForwardedTotal.Inc()
		reply = Reply{Text: u.maybePolish(ctx, answerEscalationForwarded(u.opts.Links)), Intent: entity.IntentEscalationDetail}
	case escalation.OutcomeAwaitingConfirmation:
		reply = Reply{Text: answerEscalationConfirmPrompt(), Intent: entity.IntentEscalationDetail}
	default:
		reply = Reply{Text: answerEscalationCancelled(), Intent: entity.IntentEscalationCancel}
	}

	u.audit(ctx, chatID, userName, text, reply)
	metrics.MessagesTotal.WithLabelValues(string(reply.Intent)).Inc()
	return reply, nil
}

// classify tries the AI classifier first and falls back to the rules.
func (u *chatUseCase) classify(ctx context.Context, text string) entity.Intent {
	if u.aiRepo != nil {
		intent, err := u.aiRepo.ClassifyIntent(ctx, text)
		if err == nil {
			return intent
		}
		log.Printf("ai classify failed, using rules: %v", err)
	}
	return classifyIntentRules(text, u.cat)
}

// resolve maps the intent to an answer, running the ranker for the query
// intents and remembering the top match on the conversation.
func (u *chatUseCase) resolve(ctx context.Context, chatID int64, intent entity.Intent, text string) Reply {
	reply := Reply{Intent: intent}

	switch intent {
	case entity.IntentStart:
		reply.Text = answerStart()

	case entity.IntentMenuCombo:
		reply.Text = answerMenuCombo()

	case entity.IntentMenuProductSearch:
		reply.Text = answerMenuProductSearch()

	case entity.IntentMenuBuyPayment, entity.IntentBuyPayment:
		reply.Text = answerBuyPayment(u.opts.Links)

	case entity.IntentMenuEscalation, entity.IntentEscalation:
		u.machine.Open(chatID)
		reply.Text = answerBusinessEscalation(u.opts.Links)

	case entity.IntentMenuChannels, entity.IntentChannels:
		reply.Text = answerChannels(u.opts.Links)

	case entity.IntentProductByCode:
		code := extractCode(text)
		p, ok := u.cat.Product(code)
		if !ok {
			reply.Text = answerCodeNotFound()
			break
		}
		reply.Text = formatProductByCode(p, u.labels)
		reply.MatchedProductCode = p.Code
		reply.MatchedProductName = p.Name
		u.rememberMatch(ctx, chatID, entity.MatchRef{Kind: entity.MatchProduct, ID: p.Code, Name: p.Name})

	case entity.IntentComboHealth:
		res := u.rank(ctx, text)
		if len(res.Combos) > 0 {
			top := res.Combos[0].Combo
			reply.Text = formatComboAnswer(top, u.cat, u.labels)
			reply.MatchedComboID = top.ID
			reply.MatchedComboName = top.Name
			u.rememberMatch(ctx, chatID, entity.MatchRef{Kind: entity.MatchCombo, ID: top.ID, Name: top.Name})
			break
		}
		reply = u.productListReply(ctx, chatID, intent, res)

	case entity.IntentHealthProducts, entity.IntentProductInfo:
		reply = u.productListReply(ctx, chatID, intent, u.rank(ctx, text))

	default:
		reply.Text = answerFallback()
	}

	return reply
}

// productListReply renders the ranked product list and tracks the top hit.
func (u *chatUseCase) productListReply(ctx context.Context, chatID int64, intent entity.Intent, res match.Result) Reply {
	reply := Reply{Intent: intent}
	products := make([]entity.Product, 0, len(res.Products))
	for _, m := range res.Products {
		products = append(products, m.Product)
	}
	reply.Text = formatProductsAnswer(products, u.labels)
	if len(products) > 0 {
		top := products[0]
		reply.MatchedProductCode = top.Code
		reply.MatchedProductName = top.Name
		u.rememberMatch(ctx, chatID, entity.MatchRef{Kind: entity.MatchProduct, ID: top.Code, Name: top.Name})
	} else {
		metrics.UnmatchedQueriesTotal.Inc()
	}
	return reply
}

// rank runs the ranker, asking the AI extractor for symptom/goal phrases
// first. Extraction failure just means ranking on the raw text.
func (u *chatUseCase) rank(ctx context.Context, text string) match.Result {
	q := match.Query{Text: text}
	if u.aiRepo != nil {
		signals, err := u.aiRepo.ExtractQuerySignals(ctx, text)
		if err != nil {
			log.Printf("ai signal extraction failed, ranking on raw text: %v", err)
		} else if signals != nil {
			q.SymptomPhrases = signals.SymptomPhrases
			q.GoalPhrases = signals.GoalPhrases
		}
	}
	return match.Rank(q, u.cat, u.opts.Match)
}

func (u *chatUseCase) rememberMatch(ctx context.Context, chatID int64, ref entity.MatchRef) {
	err := u.convRepo.Update(ctx, chatID, func(c *entity.Conversation) {
		c.LastMatch = &ref
	})
	if err != nil {
		log.Printf("failed to remember match for chat %d: %v", chatID, err)
	}
}

// maybePolish runs the AI polisher when enabled. On any failure the caller
// keeps the templated text.
func (u *chatUseCase) maybePolish(ctx context.Context, text string) string {
	if u.aiRepo == nil || !u.opts.EnablePolish || text == "" {
		return text
	}
	polished, err := u.aiRepo.PolishAnswer(ctx, text)
	if err != nil {
		log.Printf("ai polish failed, sending templated answer: %v", err)
		return text
	}
	return polished
}

func (u *chatUseCase) audit(ctx context.Context, chatID int64, userName, text string, reply Reply) {
	err := u.auditRepo.Save(ctx, repository.AuditEntry{
		ChatID:             chatID,
		UserName:           userName,
		Text:               text,
		Intent:             reply.Intent,
		MatchedComboID:     reply.MatchedComboID,
		MatchedComboName:   reply.MatchedComboName,
		MatchedProductCode: reply.MatchedProductCode,
		MatchedProductName: reply.MatchedProductName,
	})
	if err != nil {
		log.Printf("audit save failed: %v", err)
	}
}

func (u *chatUseCase) RelayUplineReply(ctx context.Context, targetChatID int64, uplineName, body string) (string, error) {
	if body == "" {
		return "", fmt.Errorf("empty upline reply body")
	}
	text := "*Trả lời từ tuyến trên:* 👇\n\n" + body
	text = u.maybePolish(ctx, text)

	u.audit(ctx, targetChatID, uplineName, body, Reply{Intent: entity.IntentUplineReply})
	metrics.MessagesTotal.WithLabelValues(string(entity.IntentUplineReply)).Inc()
	return text, nil
}
