// Package escalation implements the collect-then-forward handshake used when
// an advisor needs to hand a hard question to the upline. The machine runs
// per conversation, takes absolute precedence over query resolution while a
// handshake is open, and never times out on its own.
package escalation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/greenwayvn/advisor-bot/internal/normalize"
)

// State is the escalation sub-state of one conversation.
type State int

const (
	// StateIdle means no handshake is open; messages flow to the matcher.
	StateIdle State = iota
	// StateAwaitingDescription means the next message is the escalation
	// payload (or a cancel).
	StateAwaitingDescription
	// StateAwaitingConfirmation means a payload is held and the advisor must
	// confirm before it is forwarded. Only reachable with the confirmation
	// option enabled.
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateAwaitingDescription:
		return "awaiting_description"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "idle"
	}
}

// Outcome tells the caller what a Submit did, so it can pick the right reply.
type Outcome int

const (
	// OutcomeForwarded: the payload went to the sink, state is Idle again.
	OutcomeForwarded Outcome = iota
	// OutcomeCancelled: the advisor backed out, nothing was forwarded.
	OutcomeCancelled
	// OutcomeAwaitingConfirmation: payload held, confirmation prompt due.
	OutcomeAwaitingConfirmation
)

// Ticket is one forwarded escalation request.
type Ticket struct {
	ID        string
	ChatID    int64
	UserName  string
	Payload   string
	CreatedAt time.Time
}

// Sink delivers a ticket to the supervisor channel. It is invoked exactly
// once per forward; a delivery error is reported to the caller for logging
// but never rolls the state transition back.
type Sink interface {
	Deliver(ctx context.Context, ticket Ticket) error
}

// Options tunes the handshake shape.
type Options struct {
	// RequireConfirmation inserts the AwaitingConfirmation hop between the
	// description and the forward. Off by default: the first follow-up
	// message is forwarded as-is.
	RequireConfirmation bool
}

// cancelWords end the handshake from either waiting state.
var cancelWords = map[string]struct{}{
	"huy":    {},
	"huy bo": {},
	"thoi":   {},
	"cancel": {},
	"stop":   {},
	"bo qua": {},
	"khong":  {},
}

// confirmWords forward the held payload from AwaitingConfirmation.
var confirmWords = map[string]struct{}{
	"ok":       {},
	"oke":      {},
	"co":       {},
	"dong y":   {},
	"ong y":    {}, // "đồng ý" after diacritic folding drops the đ
	"gui":      {},
	"gui di":   {},
	"yes":      {},
	"xac nhan": {},
}

type slot struct {
	mu      sync.Mutex
	state   State
	payload string // held description while awaiting confirmation
}

// Machine tracks the handshake state for every conversation. All transitions
// for one conversation are serialized on that conversation's lock; different
// conversations proceed in parallel.
type Machine struct {
	sink Sink
	opts Options

	mu    sync.Mutex
	slots map[int64]*slot
}

// NewMachine creates a machine delivering into sink.
func NewMachine(sink Sink, opts Options) *Machine {
	return &Machine{
		sink:  sink,
		opts:  opts,
		slots: make(map[int64]*slot),
	}
}

func (m *Machine) slotFor(chatID int64) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[chatID]
	if !ok {
		s = &slot{state: StateIdle}
		m.slots[chatID] = s
	}
	return s
}

// State returns the current sub-state for a conversation.
func (m *Machine) State(chatID int64) State {
	s := m.slotFor(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open starts a handshake: Idle -> AwaitingDescription. Returns false when a
// handshake is already in progress, in which case nothing changes.
func (m *Machine) Open(chatID int64) bool {
	s := m.slotFor(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.state = StateAwaitingDescription
	return true
}

// Cancel aborts the handshake from either waiting state without delivering
// anything. Returns false when the conversation was already idle.
func (m *Machine) Cancel(chatID int64) bool {
	s := m.slotFor(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return false
	}
	s.state = StateIdle
	s.payload = ""
	return true
}

// Submit feeds a message into an open handshake. The caller must only call
// it when State != StateIdle; feeding an idle conversation is a programming
// error and returns OutcomeCancelled with no side effects.
//
// The returned error is a sink delivery failure only: by the time it is
// reported the state transition has already happened and must not be undone.
func (m *Machine) Submit(ctx context.Context, chatID int64, userName, text string) (Outcome, error) {
	s := m.slotFor(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()

	folded := normalize.Fold(text)

	switch s.state {
	case StateAwaitingDescription:
		if _, ok := cancelWords[folded]; ok {
			s.state = StateIdle
			s.payload = ""
			return OutcomeCancelled, nil
		}
		if m.opts.RequireConfirmation {
			s.payload = text
			s.state = StateAwaitingConfirmation
			return OutcomeAwaitingConfirmation, nil
		}
		s.state = StateIdle
		return OutcomeForwarded, m.deliver(ctx, chatID, userName, text)

	case StateAwaitingConfirmation:
		if _, ok := cancelWords[folded]; ok {
			s.state = StateIdle
			s.payload = ""
			return OutcomeCancelled, nil
		}
		if _, ok := confirmWords[folded]; ok {
			payload := s.payload
			s.state = StateIdle
			s.payload = ""
			return OutcomeForwarded, m.deliver(ctx, chatID, userName, payload)
		}
		// Neither confirm nor cancel: hold the payload and re-prompt.
		return OutcomeAwaitingConfirmation, nil
	}

	return OutcomeCancelled, nil
}

func (m *Machine) deliver(ctx context.Context, chatID int64, userName, payload string) error {
	if m.sink == nil {
		return nil
	}
	return m.sink.Deliver(ctx, Ticket{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		UserName:  userName,
		Payload:   payload,
		CreatedAt: time.Now(),
	})
}
