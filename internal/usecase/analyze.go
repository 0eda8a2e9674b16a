package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ArticleTutor/internal/domain"
	"ArticleTutor/internal/ports"
)

// recentLimit bounds the article listing.
const recentLimit = 20

// FetchError marks extraction failures so the API layer can map them to a
// client error instead of a server error.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string { return "fetch article: " + e.Cause.Error() }
func (e *FetchError) Unwrap() error { return e.Cause }

// AnalysisError marks model-provider failures (auth, malformed reply,
// exhausted retries).
type AnalysisError struct {
	Cause error
}

func (e *AnalysisError) Error() string { return "model analysis: " + e.Cause.Error() }
func (e *AnalysisError) Unwrap() error { return e.Cause }

// Deps wires all driven adapters into the service.
type Deps struct {
	Fetcher    ports.ContentFetcher
	Analyzer   ports.Analyzer
	Repository ports.ArticleRepository
	Logger     *slog.Logger
}

// Service implements the analysis and feedback workflows.
type Service struct {
	fetcher    ports.ContentFetcher
	analyzer   ports.Analyzer
	repository ports.ArticleRepository
	logger     *slog.Logger
}

// NewService constructs the orchestration component.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:    deps.Fetcher,
		analyzer:   deps.Analyzer,
		repository: deps.Repository,
		logger:     logger,
	}
}

// Analyze runs the full pipeline for a URL: read-through dedup, extraction,
// model analysis, normalization, and transactional persistence. A URL that
// was already analyzed returns the stored result without touching the
// extractor or the model.
func (s *Service) Analyze(ctx context.Context, url string) (*domain.Article, error) {
	existing, err := s.repository.GetByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("look up stored analysis: %w", err)
	}
	if existing != nil {
		s.logger.Debug("serving stored analysis", "url", url, "article_id", existing.ID)
		return existing, nil
	}

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &FetchError{Cause: err}
	}
	s.logger.Debug("extracted article", "url", url, "title", page.Title, "content_chars", len(page.Content))

	raw, err := s.analyzer.AnalyzeArticle(ctx, page.Title, page.Content)
	if err != nil {
		return nil, &AnalysisError{Cause: err}
	}

	analysis := NormalizeAnalysis(raw, page.Title)

	stored, err := s.repository.SaveAnalysis(ctx, url, analysis)
	if err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	s.logger.Info("article analyzed", "url", url, "article_id", stored.ID,
		"concepts", len(stored.Concepts), "questions", questionCount(stored))
	return stored, nil
}

// Feedback evaluates a user's explanation of a concept and returns the
// normalized model feedback.
func (s *Service) Feedback(ctx context.Context, explanation, conceptName, originalDescription string) (domain.Feedback, error) {
	raw, err := s.analyzer.EvaluateExplanation(ctx, explanation, conceptName, originalDescription)
	if err != nil {
		return domain.Feedback{}, &AnalysisError{Cause: err}
	}
	return NormalizeFeedback(raw), nil
}

// GetArticle returns one stored article with all children.
func (s *Service) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	return s.repository.GetByID(ctx, id)
}

// ListArticles returns the most recent analyses, newest first.
func (s *Service) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return s.repository.ListRecent(ctx, recentLimit)
}

func questionCount(article *domain.Article) int {
	total := 0
	for _, quiz := range article.Quizzes {
		total += len(quiz.Questions)
	}
	return total
}
