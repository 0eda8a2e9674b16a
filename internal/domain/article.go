package domain

import "time"

// Article is the root entity produced by one successful analysis. It owns
// its concepts, ELI5 explanations, and quizzes; deleting an article removes
// the whole subtree.
type Article struct {
	ID          int64
	URL         string
	Title       string
	Source      string
	Summary     string
	ReadingTime int
	Difficulty  string
	CreatedAt   time.Time

	Concepts         []Concept
	Eli5Explanations []Eli5Explanation
	Quizzes          []Quiz
}

// Concept is a key idea extracted from the article.
type Concept struct {
	ID          int64
	ArticleID   int64
	Name        string
	Description string
	Complexity  string
	Analogy     string
}

// Eli5Explanation simplifies one concept. ConceptName is free text, not a
// reference into Concepts.
type Eli5Explanation struct {
	ID                int64
	ArticleID         int64
	ConceptName       string
	SimpleExplanation string
	Analogy           string
	RealWorldExample  string
}

// Quiz groups the questions generated for an article. The pipeline creates
// exactly one per analysis.
type Quiz struct {
	ID        int64
	ArticleID int64
	Questions []QuizQuestion
}

// QuizQuestion is a single quiz entry. Options is empty for anything other
// than multiple choice.
type QuizQuestion struct {
	ID            int64
	QuizID        int64
	Question      string
	Type          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    string
}
