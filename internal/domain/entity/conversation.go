package entity

// MatchRefKind distinguishes what kind of catalog entity was matched last.
type MatchRefKind string

const (
	MatchProduct MatchRefKind = "product"
	MatchCombo   MatchRefKind = "combo"
)

// MatchRef remembers the most recently matched catalog entity for a
// conversation, so a later "that didn't help" message has context.
type MatchRef struct {
	Kind MatchRefKind
	ID   string
	Name string
}

// Conversation is the per-chat state the bot keeps for the process lifetime.
// It is created on the first message from a chat and never destroyed.
type Conversation struct {
	ChatID    int64
	Tone      string
	LastMatch *MatchRef
}
