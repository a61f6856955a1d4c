package repository

import (
	"context"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
)

// AIRepository is the optional language-model collaborator. Every method may
// fail or the whole dependency may be absent (nil); the engine must keep
// working on its rule-based and raw-text paths in that case.
type AIRepository interface {
	// ClassifyIntent labels a raw advisor message with one intent.
	ClassifyIntent(ctx context.Context, text string) (entity.Intent, error)

	// ExtractQuerySignals pulls structured symptom/goal phrases out of a
	// free-form health query for the ranker.
	ExtractQuerySignals(ctx context.Context, text string) (*entity.QuerySignals, error)

	// PolishAnswer rewrites an outbound answer into smoother Vietnamese
	// without adding claims or touching names, codes, prices or links.
	PolishAnswer(ctx context.Context, answer string) (string, error)
}
