package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ArticleTutor/internal/domain"
	"ArticleTutor/internal/ports"
)

type fakeFetcher struct {
	page  domain.Page
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (domain.Page, error) {
	f.calls++
	if f.err != nil {
		return domain.Page{}, f.err
	}
	page := f.page
	page.URL = url
	return page, nil
}

type fakeAnalyzer struct {
	analysis map[string]any
	feedback map[string]any
	err      error
	calls    int
}

func (f *fakeAnalyzer) AnalyzeArticle(context.Context, string, string) (map[string]any, error) {
	f.calls++
	return f.analysis, f.err
}

func (f *fakeAnalyzer) EvaluateExplanation(context.Context, string, string, string) (map[string]any, error) {
	f.calls++
	return f.feedback, f.err
}

type fakeRepository struct {
	stored    map[string]*domain.Article
	saved     []domain.Analysis
	saveErr   error
	nextID    int64
	listItems []domain.Article
	lastLimit int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{stored: map[string]*domain.Article{}, nextID: 1}
}

func (f *fakeRepository) SaveAnalysis(_ context.Context, url string, analysis domain.Analysis) (*domain.Article, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, analysis)

	article := &domain.Article{
		ID:          f.nextID,
		URL:         url,
		Title:       analysis.Title,
		Source:      analysis.Source,
		Summary:     analysis.Summary,
		ReadingTime: analysis.ReadingTime,
		Difficulty:  analysis.Difficulty,
		CreatedAt:   time.Now().UTC(),
	}
	f.nextID++
	for _, c := range analysis.Concepts {
		article.Concepts = append(article.Concepts, domain.Concept{ArticleID: article.ID, Name: c.Name})
	}
	for _, e := range analysis.Eli5Explanations {
		article.Eli5Explanations = append(article.Eli5Explanations, domain.Eli5Explanation{ArticleID: article.ID, ConceptName: e.ConceptName})
	}
	quiz := domain.Quiz{ID: article.ID, ArticleID: article.ID}
	for _, q := range analysis.Questions {
		quiz.Questions = append(quiz.Questions, domain.QuizQuestion{QuizID: quiz.ID, Question: q.Question})
	}
	article.Quizzes = []domain.Quiz{quiz}

	f.stored[url] = article
	return article, nil
}

func (f *fakeRepository) GetByURL(_ context.Context, url string) (*domain.Article, error) {
	return f.stored[url], nil
}

func (f *fakeRepository) GetByID(_ context.Context, id int64) (*domain.Article, error) {
	for _, a := range f.stored {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeRepository) ListRecent(_ context.Context, limit int) ([]domain.Article, error) {
	f.lastLimit = limit
	if len(f.listItems) > limit {
		return f.listItems[:limit], nil
	}
	return f.listItems, nil
}

func newTestService(fetcher *fakeFetcher, analyzer *fakeAnalyzer, repo *fakeRepository) *Service {
	return NewService(Deps{Fetcher: fetcher, Analyzer: analyzer, Repository: repo})
}

func TestAnalyzePersistsNormalizedGraph(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{page: domain.Page{Title: "Extracted Title", Content: "body"}}
	analyzer := &fakeAnalyzer{analysis: map[string]any{
		"summary": "sum",
		"key_concepts": []any{
			map[string]any{"name": "a"}, map[string]any{"name": "b"},
			map[string]any{"name": "c"}, map[string]any{"name": "d"},
		},
		"eli5_explanations": []any{
			map[string]any{"concept_name": "a"}, map[string]any{"concept_name": "b"},
		},
		"quiz_questions": []any{
			map[string]any{"question": "q1"}, map[string]any{"question": "q2"},
			map[string]any{"question": "q3"}, map[string]any{"question": "q4"},
			map[string]any{"question": "q5"}, map[string]any{"question": "q6"},
		},
	}}
	repo := newFakeRepository()

	article, err := newTestService(fetcher, analyzer, repo).Analyze(context.Background(), "https://example.org/post")
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if article.Title != "Extracted Title" {
		t.Fatalf("expected extractor title fallback, got %q", article.Title)
	}
	if len(article.Concepts) != 4 {
		t.Fatalf("expected 4 concepts, got %d", len(article.Concepts))
	}
	if len(article.Eli5Explanations) != 2 {
		t.Fatalf("expected 2 eli5 rows, got %d", len(article.Eli5Explanations))
	}
	if len(article.Quizzes) != 1 || len(article.Quizzes[0].Questions) != 6 {
		t.Fatalf("expected one quiz with 6 questions, got %+v", article.Quizzes)
	}
	for _, c := range article.Concepts {
		if c.ArticleID != article.ID {
			t.Fatalf("concept not attached to article: %+v", c)
		}
	}
}

func TestAnalyzeIsIdempotentPerURL(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{page: domain.Page{Title: "T", Content: "c"}}
	analyzer := &fakeAnalyzer{analysis: map[string]any{"title": "T"}}
	repo := newFakeRepository()
	service := newTestService(fetcher, analyzer, repo)

	first, err := service.Analyze(context.Background(), "https://example.org/a")
	if err != nil {
		t.Fatalf("first Analyze error: %v", err)
	}

	second, err := service.Analyze(context.Background(), "https://example.org/a")
	if err != nil {
		t.Fatalf("second Analyze error: %v", err)
	}

	if first != second {
		t.Fatal("expected the stored article back on the second call")
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected a single extraction, got %d", fetcher.calls)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected a single model call, got %d", analyzer.calls)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected a single persist, got %d", len(repo.saved))
	}
}

func TestAnalyzeWrapsFetchFailures(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: errors.New("server returned 403 Forbidden")}
	service := newTestService(fetcher, &fakeAnalyzer{}, newFakeRepository())

	_, err := service.Analyze(context.Background(), "https://example.org/blocked")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Cause.Error() != "server returned 403 Forbidden" {
		t.Fatalf("cause not preserved: %v", fetchErr.Cause)
	}
}

func TestAnalyzeWrapsModelFailures(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{err: errors.New("model provider returned 401: bad key")}
	fetcher := &fakeFetcher{page: domain.Page{Title: "T", Content: "c"}}
	repo := newFakeRepository()

	_, err := newTestService(fetcher, analyzer, repo).Analyze(context.Background(), "https://example.org/a")

	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatal("nothing must be persisted when the model fails")
	}
}

func TestFeedbackNormalizesReply(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{feedback: map[string]any{
		"understanding_score": float64(70),
		"feedback":            "good",
	}}
	service := newTestService(&fakeFetcher{}, analyzer, newFakeRepository())

	feedback, err := service.Feedback(context.Background(), "my take", "Recursion", "desc")
	if err != nil {
		t.Fatalf("Feedback error: %v", err)
	}

	if feedback.UnderstandingScore != 70 || feedback.Feedback != "good" {
		t.Fatalf("unexpected feedback: %+v", feedback)
	}
	if feedback.Gaps == nil || feedback.Strengths == nil || feedback.Suggestions == nil {
		t.Fatalf("expected non-nil slices: %+v", feedback)
	}
}

func TestListArticlesUsesRecentLimit(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	for i := 0; i < 25; i++ {
		repo.listItems = append(repo.listItems, domain.Article{ID: int64(i + 1)})
	}
	service := newTestService(&fakeFetcher{}, &fakeAnalyzer{}, repo)

	articles, err := service.ListArticles(context.Background())
	if err != nil {
		t.Fatalf("ListArticles error: %v", err)
	}

	if repo.lastLimit != 20 {
		t.Fatalf("expected limit 20, got %d", repo.lastLimit)
	}
	if len(articles) != 20 {
		t.Fatalf("expected 20 articles, got %d", len(articles))
	}
}
