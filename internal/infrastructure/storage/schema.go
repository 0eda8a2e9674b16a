package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaDDL bootstraps the five tables on startup. Children cascade on
// article deletion. The url column is deliberately not unique: two
// concurrent first-time analyses of the same URL may both commit, which is
// accepted as a non-corrupting outcome.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS articles (
    id           BIGSERIAL PRIMARY KEY,
    url          TEXT NOT NULL,
    title        TEXT NOT NULL,
    source       TEXT NOT NULL DEFAULT '',
    summary      TEXT NOT NULL DEFAULT '',
    reading_time INTEGER NOT NULL DEFAULT 0,
    difficulty   TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_articles_url ON articles (url);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles (created_at DESC);

CREATE TABLE IF NOT EXISTS concepts (
    id          BIGSERIAL PRIMARY KEY,
    article_id  BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    complexity  TEXT NOT NULL DEFAULT '',
    analogy     TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_concepts_article_id ON concepts (article_id);

CREATE TABLE IF NOT EXISTS eli5_explanations (
    id                 BIGSERIAL PRIMARY KEY,
    article_id         BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    concept_name       TEXT NOT NULL,
    simple_explanation TEXT NOT NULL DEFAULT '',
    analogy            TEXT NOT NULL DEFAULT '',
    real_world_example TEXT NOT NULL DEFAULT '',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_eli5_article_id ON eli5_explanations (article_id);

CREATE TABLE IF NOT EXISTS quizzes (
    id         BIGSERIAL PRIMARY KEY,
    article_id BIGINT NOT NULL REFERENCES articles (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_quizzes_article_id ON quizzes (article_id);

CREATE TABLE IF NOT EXISTS quiz_questions (
    id             BIGSERIAL PRIMARY KEY,
    quiz_id        BIGINT NOT NULL REFERENCES quizzes (id) ON DELETE CASCADE,
    question       TEXT NOT NULL,
    question_type  TEXT NOT NULL DEFAULT '',
    correct_answer TEXT NOT NULL DEFAULT '',
    options        TEXT NOT NULL DEFAULT '[]',
    explanation    TEXT NOT NULL DEFAULT '',
    difficulty     TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz_id ON quiz_questions (quiz_id);
`

// EnsureSchema creates any missing tables. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
