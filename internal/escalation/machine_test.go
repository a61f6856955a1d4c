package escalation

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingSink struct {
	mu      sync.Mutex
	tickets []Ticket
	err     error
}

func (r *recordingSink) Deliver(_ context.Context, t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = append(r.tickets, t)
	return r.err
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

func TestRoundTripDeliversExactlyOnce(t *testing.T) {
	sink := &recordingSink{}
	m := NewMachine(sink, Options{})
	ctx := context.Background()

	if got := m.State(7); got != StateIdle {
		t.Fatalf("fresh conversation state = %v", got)
	}
	if !m.Open(7) {
		t.Fatal("Open from Idle must succeed")
	}
	if got := m.State(7); got != StateAwaitingDescription {
		t.Fatalf("state after Open = %v", got)
	}

	out, err := m.Submit(ctx, 7, "Chi Lan", "khách hỏi chính sách hoa hồng tháng này")
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if out != OutcomeForwarded {
		t.Fatalf("outcome = %v, want forwarded", out)
	}
	if sink.count() != 1 {
		t.Fatalf("sink deliveries = %d, want exactly 1", sink.count())
	}
	if got := m.State(7); got != StateIdle {
		t.Fatalf("state after forward = %v, want Idle", got)
	}

	ticket := sink.tickets[0]
	if ticket.ChatID != 7 || ticket.Payload != "khách hỏi chính sách hoa hồng tháng này" {
		t.Fatalf("ticket carries wrong data: %+v", ticket)
	}
	if ticket.ID == "" {
		t.Fatal("ticket must carry an id")
	}

	// A second follow-up without a new Open must deliver nothing. The caller
	// checks State first, so Submit is never reached; assert the state.
	if got := m.State(7); got != StateIdle {
		t.Fatalf("no handshake should be open, state = %v", got)
	}
	if sink.count() != 1 {
		t.Fatalf("late message caused a delivery: %d", sink.count())
	}
}

func TestOpenWhileWaitingIsRejected(t *testing.T) {
	m := NewMachine(&recordingSink{}, Options{})
	if !m.Open(1) {
		t.Fatal("first Open must succeed")
	}
	if m.Open(1) {
		t.Fatal("Open while a handshake is in progress must be rejected")
	}
	if got := m.State(1); got != StateAwaitingDescription {
		t.Fatalf("state = %v", got)
	}
}

func TestCancelFromAwaitingDescription(t *testing.T) {
	sink := &recordingSink{}
	m := NewMachine(sink, Options{})
	m.Open(1)

	out, err := m.Submit(context.Background(), 1, "u", "hủy")
	if err != nil || out != OutcomeCancelled {
		t.Fatalf("cancel keyword: outcome=%v err=%v", out, err)
	}
	if sink.count() != 0 {
		t.Fatal("cancel must not deliver")
	}
	if m.State(1) != StateIdle {
		t.Fatalf("state = %v, want Idle", m.State(1))
	}

	// Explicit cancel API behaves the same.
	m.Open(1)
	if !m.Cancel(1) {
		t.Fatal("Cancel on an open handshake must report true")
	}
	if m.Cancel(1) {
		t.Fatal("Cancel on an idle conversation must report false")
	}
}

func TestConfirmationFlow(t *testing.T) {
	sink := &recordingSink{}
	m := NewMachine(sink, Options{RequireConfirmation: true})
	ctx := context.Background()
	m.Open(5)

	out, err := m.Submit(ctx, 5, "u", "câu hỏi khó về chính sách")
	if err != nil || out != OutcomeAwaitingConfirmation {
		t.Fatalf("description submit: outcome=%v err=%v", out, err)
	}
	if sink.count() != 0 {
		t.Fatal("nothing may be forwarded before confirmation")
	}
	if m.State(5) != StateAwaitingConfirmation {
		t.Fatalf("state = %v", m.State(5))
	}

	// An unrelated message keeps the payload held.
	out, _ = m.Submit(ctx, 5, "u", "à mà thôi để em nghĩ đã nhé")
	if out != OutcomeAwaitingConfirmation || sink.count() != 0 {
		t.Fatalf("unrelated message must re-prompt, outcome=%v deliveries=%d", out, sink.count())
	}

	out, err = m.Submit(ctx, 5, "u", "đồng ý")
	if err != nil || out != OutcomeForwarded {
		t.Fatalf("confirm: outcome=%v err=%v", out, err)
	}
	if sink.count() != 1 {
		t.Fatalf("deliveries = %d", sink.count())
	}
	if sink.tickets[0].Payload != "câu hỏi khó về chính sách" {
		t.Fatalf("held payload lost: %+v", sink.tickets[0])
	}
	if m.State(5) != StateIdle {
		t.Fatalf("state = %v", m.State(5))
	}
}

func TestConfirmationCancelDropsPayload(t *testing.T) {
	sink := &recordingSink{}
	m := NewMachine(sink, Options{RequireConfirmation: true})
	ctx := context.Background()
	m.Open(5)
	m.Submit(ctx, 5, "u", "nội dung nhạy cảm")

	out, _ := m.Submit(ctx, 5, "u", "thôi")
	if out != OutcomeCancelled || sink.count() != 0 {
		t.Fatalf("cancel from confirmation: outcome=%v deliveries=%d", out, sink.count())
	}
	if m.State(5) != StateIdle {
		t.Fatalf("state = %v", m.State(5))
	}
}

func TestSinkFailureDoesNotRollBack(t *testing.T) {
	sink := &recordingSink{err: errors.New("telegram down")}
	m := NewMachine(sink, Options{})
	m.Open(9)

	out, err := m.Submit(context.Background(), 9, "u", "payload")
	if out != OutcomeForwarded {
		t.Fatalf("outcome = %v", out)
	}
	if err == nil {
		t.Fatal("delivery error must surface for logging")
	}
	if m.State(9) != StateIdle {
		t.Fatalf("state must reset despite delivery failure, got %v", m.State(9))
	}
}

func TestNoTimeout(t *testing.T) {
	m := NewMachine(&recordingSink{}, Options{})
	m.Open(3)
	// Nothing but another message or an explicit cancel leaves the waiting
	// state; there is no timer to race against.
	if m.State(3) != StateAwaitingDescription {
		t.Fatalf("state = %v", m.State(3))
	}
}

func TestConversationsAreIndependent(t *testing.T) {
	sink := &recordingSink{}
	m := NewMachine(sink, Options{})
	m.Open(1)
	if m.State(2) != StateIdle {
		t.Fatal("another conversation must stay idle")
	}
	if _, err := m.Submit(context.Background(), 1, "a", "x"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sink.count() != 1 || sink.tickets[0].ChatID != 1 {
		t.Fatalf("delivery misrouted: %+v", sink.tickets)
	}
}
