package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/greenwayvn/advisor-bot/internal/catalog"
	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
	"github.com/greenwayvn/advisor-bot/internal/escalation"
	"github.com/greenwayvn/advisor-bot/internal/healthtag"
)

type stubAIRepo struct {
	intent     entity.Intent
	intentErr  error
	signals    *entity.QuerySignals
	signalsErr error
	polished   string
	polishErr  error
}

func (s *stubAIRepo) ClassifyIntent(_ context.Context, _ string) (entity.Intent, error) {
	return s.intent, s.intentErr
}

func (s *stubAIRepo) ExtractQuerySignals(_ context.Context, _ string) (*entity.QuerySignals, error) {
	return s.signals, s.signalsErr
}

func (s *stubAIRepo) PolishAnswer(_ context.Context, answer string) (string, error) {
	if s.polishErr != nil {
		return "", s.polishErr
	}
	if s.polished != "" {
		return s.polished, nil
	}
	return answer, nil
}

type stubConvRepo struct {
	convs map[int64]*entity.Conversation
}

func newStubConvRepo() *stubConvRepo {
	return &stubConvRepo{convs: make(map[int64]*entity.Conversation)}
}

func (s *stubConvRepo) Get(_ context.Context, chatID int64) (entity.Conversation, error) {
	c, ok := s.convs[chatID]
	if !ok {
		c = &entity.Conversation{ChatID: chatID}
		s.convs[chatID] = c
	}
	return *c, nil
}

func (s *stubConvRepo) Update(_ context.Context, chatID int64, fn func(*entity.Conversation)) error {
	c, ok := s.convs[chatID]
	if !ok {
		c = &entity.Conversation{ChatID: chatID}
		s.convs[chatID] = c
	}
	fn(c)
	return nil
}

type stubAuditRepo struct {
	saved []repository.AuditEntry
}

func (s *stubAuditRepo) Save(_ context.Context, entry repository.AuditEntry) error {
	s.saved = append(s.saved, entry)
	return nil
}

func (s *stubAuditRepo) ListRecent(_ context.Context, limit int) ([]repository.AuditEntry, error) {
	return s.saved, nil
}

type stubSink struct {
	tickets []escalation.Ticket
}

func (s *stubSink) Deliver(_ context.Context, t escalation.Ticket) error {
	s.tickets = append(s.tickets, t)
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.Build(catalog.Source{
		Products: []entity.Product{
			{
				Code: "070728", Name: "Antisweet", ProductURL: "https://shop/antisweet",
				PriceText: "550.000đ", BenefitsText: "Hỗ trợ ổn định đường huyết",
				HealthTags: []string{"tieu_duong"},
			},
			{
				Code: "088001", Name: "Hepaclean", ProductURL: "https://shop/hepaclean",
				HealthTags: []string{"gan"},
			},
		},
		Combos: []entity.Combo{
			{
				ID: "combo-duong-huyet", Name: "Combo đường huyết",
				HeaderText: "Bộ đôi hỗ trợ tiểu đường",
				Items:      []entity.ComboItem{{ProductCode: "070728", DoseText: "2 viên/ngày"}},
			},
		},
	})
}

type fixture struct {
	uc    ChatUseCase
	sink  *stubSink
	conv  *stubConvRepo
	audit *stubAuditRepo
}

func newFixture(ai repository.AIRepository, opts Options) *fixture {
	sink := &stubSink{}
	conv := newStubConvRepo()
	audit := &stubAuditRepo{}
	machine := escalation.NewMachine(sink, escalation.Options{})
	uc := NewChatUseCase(testCatalog(), healthtag.NewLabelSet(nil), machine, ai, conv, audit, opts)
	return &fixture{uc: uc, sink: sink, conv: conv, audit: audit}
}

func TestProcessMessageStart(t *testing.T) {
	f := newFixture(nil, Options{})
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "/start")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Intent != entity.IntentStart {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if !strings.Contains(reply.Text, "Trợ lý AI") {
		t.Fatalf("unexpected start answer: %q", reply.Text)
	}
	if len(f.audit.saved) != 1 || f.audit.saved[0].Intent != entity.IntentStart {
		t.Fatalf("audit log: %+v", f.audit.saved)
	}
}

func TestProcessMessageProductByCode(t *testing.T) {
	f := newFixture(nil, Options{})
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "cho em info mã 070728")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Intent != entity.IntentProductByCode {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if reply.MatchedProductCode != "070728" || reply.MatchedProductName != "Antisweet" {
		t.Fatalf("matched fields: %+v", reply)
	}
	if !strings.Contains(reply.Text, "Antisweet") || !strings.Contains(reply.Text, "550.000đ") {
		t.Fatalf("answer missing product detail: %q", reply.Text)
	}

	conv, _ := f.conv.Get(context.Background(), 1)
	if conv.LastMatch == nil || conv.LastMatch.ID != "070728" || conv.LastMatch.Kind != entity.MatchProduct {
		t.Fatalf("last match not remembered: %+v", conv.LastMatch)
	}
}

func TestProcessMessageComboHealth(t *testing.T) {
	f := newFixture(nil, Options{})
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "khách bị tiểu đường thì dùng combo nào")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Intent != entity.IntentComboHealth {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if reply.MatchedComboID != "combo-duong-huyet" {
		t.Fatalf("matched combo: %+v", reply)
	}
	if !strings.Contains(reply.Text, "Combo đường huyết") || !strings.Contains(reply.Text, "2 viên/ngày") {
		t.Fatalf("combo answer incomplete: %q", reply.Text)
	}

	conv, _ := f.conv.Get(context.Background(), 1)
	if conv.LastMatch == nil || conv.LastMatch.Kind != entity.MatchCombo {
		t.Fatalf("last match not remembered: %+v", conv.LastMatch)
	}
}

func TestEscalationRoundTrip(t *testing.T) {
	f := newFixture(nil, Options{Links: Links{Hotline: "0900"}})
	ctx := context.Background()

	reply, err := f.uc.ProcessMessage(ctx, 9, "Lan", "☎️ Kết nối tuyến trên")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if reply.Intent != entity.IntentMenuEscalation {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if len(f.sink.tickets) != 0 {
		t.Fatal("nothing may be forwarded on open")
	}

	// The very next message is the payload, regardless of its content.
	reply, err = f.uc.ProcessMessage(ctx, 9, "Lan", "khách hỏi chính sách hoa hồng tháng này")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reply.Intent != entity.IntentEscalationDetail {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if len(f.sink.tickets) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(f.sink.tickets))
	}
	if f.sink.tickets[0].ChatID != 9 || f.sink.tickets[0].Payload != "khách hỏi chính sách hoa hồng tháng này" {
		t.Fatalf("wrong ticket: %+v", f.sink.tickets[0])
	}

	// A follow-up message is classified normally again.
	reply, _ = f.uc.ProcessMessage(ctx, 9, "Lan", "/start")
	if reply.Intent != entity.IntentStart {
		t.Fatalf("handshake must be closed, intent = %v", reply.Intent)
	}
	if len(f.sink.tickets) != 1 {
		t.Fatal("late message must not deliver again")
	}
}

func TestEscalationCancel(t *testing.T) {
	f := newFixture(nil, Options{})
	ctx := context.Background()

	f.uc.ProcessMessage(ctx, 9, "Lan", "☎️ Kết nối tuyến trên")
	reply, err := f.uc.ProcessMessage(ctx, 9, "Lan", "hủy")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if reply.Intent != entity.IntentEscalationCancel {
		t.Fatalf("intent = %v", reply.Intent)
	}
	if len(f.sink.tickets) != 0 {
		t.Fatal("cancel must not deliver")
	}
}

func TestAIClassifierWinsOverRules(t *testing.T) {
	ai := &stubAIRepo{intent: entity.IntentBuyPayment}
	f := newFixture(ai, Options{Links: Links{Website: "https://shop"}})

	// Rules would classify this as start; the AI label must win.
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "hello shop")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Intent != entity.IntentBuyPayment {
		t.Fatalf("intent = %v, want buy_payment from AI", reply.Intent)
	}
}

func TestAIClassifierFailureFallsBackToRules(t *testing.T) {
	ai := &stubAIRepo{intentErr: fmt.Errorf("quota exceeded")}
	f := newFixture(ai, Options{})

	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "/start")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Intent != entity.IntentStart {
		t.Fatalf("rules fallback broken, intent = %v", reply.Intent)
	}
}

func TestExtractorPhrasesReachTheRanker(t *testing.T) {
	ai := &stubAIRepo{
		intent:  entity.IntentHealthProducts,
		signals: &entity.QuerySignals{SymptomPhrases: []string{"men gan cao"}},
	}
	f := newFixture(ai, Options{})

	// The raw text names no condition; only the extracted phrase does.
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "khách hỏi như hôm trước")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.MatchedProductCode != "088001" {
		t.Fatalf("extracted phrase must drive the match, got %+v", reply)
	}
}

func TestPolishFailureKeepsTemplatedText(t *testing.T) {
	ai := &stubAIRepo{intent: entity.IntentStart, polishErr: fmt.Errorf("timeout")}
	f := newFixture(ai, Options{EnablePolish: true})

	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "/start")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !strings.Contains(reply.Text, "Trợ lý AI") {
		t.Fatalf("templated answer lost: %q", reply.Text)
	}
}

func TestPolishAppliedWhenEnabled(t *testing.T) {
	ai := &stubAIRepo{intent: entity.IntentStart, polished: "bản đã mượt"}
	f := newFixture(ai, Options{EnablePolish: true})

	reply, _ := f.uc.ProcessMessage(context.Background(), 1, "Lan", "/start")
	if reply.Text != "bản đã mượt" {
		t.Fatalf("polish not applied: %q", reply.Text)
	}
}

func TestRelayUplineReply(t *testing.T) {
	f := newFixture(nil, Options{})
	text, err := f.uc.RelayUplineReply(context.Background(), 9, "Leader", "chính sách mới áp dụng từ tháng sau")
	if err != nil {
		t.Fatalf("RelayUplineReply: %v", err)
	}
	if !strings.HasPrefix(text, "*Trả lời từ tuyến trên:*") {
		t.Fatalf("missing upline prefix: %q", text)
	}
	if len(f.audit.saved) != 1 || f.audit.saved[0].Intent != entity.IntentUplineReply || f.audit.saved[0].ChatID != 9 {
		t.Fatalf("audit log: %+v", f.audit.saved)
	}
}

func TestEmptyTextGetsGentleAnswer(t *testing.T) {
	f := newFixture(nil, Options{})
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !strings.Contains(reply.Text, "dạng text") {
		t.Fatalf("unexpected answer: %q", reply.Text)
	}
}

func TestUnmatchedHealthQueryPromptsForDetail(t *testing.T) {
	f := newFixture(nil, Options{})
	reply, err := f.uc.ProcessMessage(context.Background(), 1, "Lan", "khách bị táo bón lâu ngày")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.MatchedComboID != "" || reply.MatchedProductCode != "" {
		t.Fatalf("nothing should match: %+v", reply)
	}
	if !strings.Contains(reply.Text, "chưa tìm được sản phẩm phù hợp") {
		t.Fatalf("unexpected no-match answer: %q", reply.Text)
	}
}
