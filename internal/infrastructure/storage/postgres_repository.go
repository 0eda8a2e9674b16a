package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ArticleTutor/internal/domain"
	"ArticleTutor/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{"id", "url", "title", "source", "summary", "reading_time", "difficulty", "created_at"}

// PostgresRepository persists analyzed articles into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveAnalysis writes the article and all child rows in a single
// transaction. On any failure nothing is persisted.
func (r *PostgresRepository) SaveAnalysis(ctx context.Context, url string, analysis domain.Analysis) (*domain.Article, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	article := &domain.Article{
		URL:         url,
		Title:       analysis.Title,
		Source:      analysis.Source,
		Summary:     analysis.Summary,
		ReadingTime: analysis.ReadingTime,
		Difficulty:  analysis.Difficulty,
	}

	query, args, err := psql.Insert("articles").
		Columns("url", "title", "source", "summary", "reading_time", "difficulty").
		Values(url, analysis.Title, analysis.Source, analysis.Summary, analysis.ReadingTime, analysis.Difficulty).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article insert: %w", err)
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&article.ID, &article.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	for _, draft := range analysis.Concepts {
		query, args, err := psql.Insert("concepts").
			Columns("article_id", "name", "description", "complexity", "analogy").
			Values(article.ID, draft.Name, draft.Description, draft.Complexity, draft.Analogy).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build concept insert: %w", err)
		}
		concept := domain.Concept{
			ArticleID:   article.ID,
			Name:        draft.Name,
			Description: draft.Description,
			Complexity:  draft.Complexity,
			Analogy:     draft.Analogy,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&concept.ID); err != nil {
			return nil, fmt.Errorf("insert concept: %w", err)
		}
		article.Concepts = append(article.Concepts, concept)
	}

	for _, draft := range analysis.Eli5Explanations {
		query, args, err := psql.Insert("eli5_explanations").
			Columns("article_id", "concept_name", "simple_explanation", "analogy", "real_world_example").
			Values(article.ID, draft.ConceptName, draft.SimpleExplanation, draft.Analogy, draft.RealWorldExample).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build eli5 insert: %w", err)
		}
		eli5 := domain.Eli5Explanation{
			ArticleID:         article.ID,
			ConceptName:       draft.ConceptName,
			SimpleExplanation: draft.SimpleExplanation,
			Analogy:           draft.Analogy,
			RealWorldExample:  draft.RealWorldExample,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&eli5.ID); err != nil {
			return nil, fmt.Errorf("insert eli5 explanation: %w", err)
		}
		article.Eli5Explanations = append(article.Eli5Explanations, eli5)
	}

	quiz := domain.Quiz{ArticleID: article.ID}
	query, args, err = psql.Insert("quizzes").
		Columns("article_id").
		Values(article.ID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quiz insert: %w", err)
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&quiz.ID); err != nil {
		return nil, fmt.Errorf("insert quiz: %w", err)
	}

	for _, draft := range analysis.Questions {
		options, err := encodeOptions(draft.Options)
		if err != nil {
			return nil, fmt.Errorf("encode question options: %w", err)
		}
		query, args, err := psql.Insert("quiz_questions").
			Columns("quiz_id", "question", "question_type", "correct_answer", "options", "explanation", "difficulty").
			Values(quiz.ID, draft.Question, draft.Type, draft.CorrectAnswer, options, draft.Explanation, draft.Difficulty).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build question insert: %w", err)
		}
		question := domain.QuizQuestion{
			QuizID:        quiz.ID,
			Question:      draft.Question,
			Type:          draft.Type,
			Options:       draft.Options,
			CorrectAnswer: draft.CorrectAnswer,
			Explanation:   draft.Explanation,
			Difficulty:    draft.Difficulty,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&question.ID); err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	article.Quizzes = []domain.Quiz{quiz}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit analysis: %w", err)
	}

	return article, nil
}

// GetByURL returns the nested article for an exact URL match, or nil when
// nothing is stored. The oldest match wins if duplicates ever raced in.
func (r *PostgresRepository) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"url": url}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build url lookup: %w", err)
	}

	article, err := r.scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query article by url: %w", err)
	}

	if err := r.loadChildren(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// GetByID returns the nested article or ports.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build id lookup: %w", err)
	}

	article, err := r.scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query article by id: %w", err)
	}

	if err := r.loadChildren(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// ListRecent returns up to limit articles, newest first, without children.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]domain.Article, error) {
	query, args, err := listRecentBuilder(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent listing: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, limit)
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(&article.ID, &article.URL, &article.Title, &article.Source,
			&article.Summary, &article.ReadingTime, &article.Difficulty, &article.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

func listRecentBuilder(limit int) sq.SelectBuilder {
	return psql.Select(articleColumns...).
		From("articles").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
}

func (r *PostgresRepository) scanArticle(row *sql.Row) (*domain.Article, error) {
	var article domain.Article
	if err := row.Scan(&article.ID, &article.URL, &article.Title, &article.Source,
		&article.Summary, &article.ReadingTime, &article.Difficulty, &article.CreatedAt); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *PostgresRepository) loadChildren(ctx context.Context, article *domain.Article) error {
	if err := r.loadConcepts(ctx, article); err != nil {
		return err
	}
	if err := r.loadEli5(ctx, article); err != nil {
		return err
	}
	return r.loadQuizzes(ctx, article)
}

func (r *PostgresRepository) loadConcepts(ctx context.Context, article *domain.Article) error {
	query, args, err := psql.Select("id", "article_id", "name", "description", "complexity", "analogy").
		From("concepts").
		Where(sq.Eq{"article_id": article.ID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build concepts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query concepts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var concept domain.Concept
		if err := rows.Scan(&concept.ID, &concept.ArticleID, &concept.Name,
			&concept.Description, &concept.Complexity, &concept.Analogy); err != nil {
			return fmt.Errorf("scan concept: %w", err)
		}
		article.Concepts = append(article.Concepts, concept)
	}
	return rows.Err()
}

func (r *PostgresRepository) loadEli5(ctx context.Context, article *domain.Article) error {
	query, args, err := psql.Select("id", "article_id", "concept_name", "simple_explanation", "analogy", "real_world_example").
		From("eli5_explanations").
		Where(sq.Eq{"article_id": article.ID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build eli5 query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query eli5 explanations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eli5 domain.Eli5Explanation
		if err := rows.Scan(&eli5.ID, &eli5.ArticleID, &eli5.ConceptName,
			&eli5.SimpleExplanation, &eli5.Analogy, &eli5.RealWorldExample); err != nil {
			return fmt.Errorf("scan eli5 explanation: %w", err)
		}
		article.Eli5Explanations = append(article.Eli5Explanations, eli5)
	}
	return rows.Err()
}

func (r *PostgresRepository) loadQuizzes(ctx context.Context, article *domain.Article) error {
	query, args, err := psql.Select("id", "article_id").
		From("quizzes").
		Where(sq.Eq{"article_id": article.ID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build quizzes query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.ArticleID); err != nil {
			return fmt.Errorf("scan quiz: %w", err)
		}
		article.Quizzes = append(article.Quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range article.Quizzes {
		if err := r.loadQuestions(ctx, &article.Quizzes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) loadQuestions(ctx context.Context, quiz *domain.Quiz) error {
	query, args, err := psql.Select("id", "quiz_id", "question", "question_type", "correct_answer", "options", "explanation", "difficulty").
		From("quiz_questions").
		Where(sq.Eq{"quiz_id": quiz.ID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build questions query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var question domain.QuizQuestion
		var options string
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Question,
			&question.Type, &question.CorrectAnswer, &options,
			&question.Explanation, &question.Difficulty); err != nil {
			return fmt.Errorf("scan question: %w", err)
		}
		question.Options = decodeOptions(options)
		quiz.Questions = append(quiz.Questions, question)
	}
	return rows.Err()
}

// encodeOptions stores the options sequence as a JSON string, matching the
// TEXT column in quiz_questions.
func encodeOptions(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// decodeOptions is lenient: an empty or broken stored value serializes as an
// empty sequence rather than failing the whole read.
func decodeOptions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil || options == nil {
		return []string{}
	}
	return options
}
