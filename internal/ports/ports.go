package ports

import (
	"context"
	"errors"

	"ArticleTutor/internal/domain"
)

// ErrNotFound is returned by repository reads when no row matches.
var ErrNotFound = errors.New("not found")

// ContentFetcher turns a URL into a bounded plain-text payload.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (domain.Page, error)
}

// Analyzer runs the two structured-generation operations against the model
// provider. Both return the provider's reply parsed as a JSON object.
type Analyzer interface {
	AnalyzeArticle(ctx context.Context, title, content string) (map[string]any, error)
	EvaluateExplanation(ctx context.Context, explanation, conceptName, originalDescription string) (map[string]any, error)
}

// ArticleRepository persists and reads analyzed articles.
type ArticleRepository interface {
	// SaveAnalysis writes the whole article graph in one transaction and
	// returns the stored entity with identities assigned.
	SaveAnalysis(ctx context.Context, url string, analysis domain.Analysis) (*domain.Article, error)

	// GetByURL returns the nested article for an exact URL match, or nil
	// when no analysis is stored for it.
	GetByURL(ctx context.Context, url string) (*domain.Article, error)

	// GetByID returns the nested article or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Article, error)

	// ListRecent returns up to limit articles, newest first, without
	// children loaded.
	ListRecent(ctx context.Context, limit int) ([]domain.Article, error)
}
