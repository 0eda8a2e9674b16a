package domain

// Page is the readable payload extracted from a fetched URL.
type Page struct {
	URL     string
	Title   string
	Content string
}

// Analysis is the normalized model output for one article, ready to be
// persisted as an Article graph. Child entries carry no identities yet.
type Analysis struct {
	Title       string
	Summary     string
	Source      string
	ReadingTime int
	Difficulty  string

	Concepts         []ConceptDraft
	Eli5Explanations []Eli5Draft
	Questions        []QuestionDraft
}

// ConceptDraft is a key concept before persistence.
type ConceptDraft struct {
	Name        string
	Description string
	Complexity  string
	Analogy     string
}

// Eli5Draft is an ELI5 explanation before persistence.
type Eli5Draft struct {
	ConceptName       string
	SimpleExplanation string
	Analogy           string
	RealWorldExample  string
}

// QuestionDraft is a quiz question before persistence.
type QuestionDraft struct {
	Question      string
	Type          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Difficulty    string
}

// Feedback is the normalized model evaluation of a user's explanation.
type Feedback struct {
	UnderstandingScore int      `json:"understanding_score"`
	Feedback           string   `json:"feedback"`
	Gaps               []string `json:"gaps"`
	Suggestions        []string `json:"suggestions"`
	Strengths          []string `json:"strengths"`
	RevisedExplanation string   `json:"revised_explanation"`
}
