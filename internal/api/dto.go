package api

import (
	"time"

	"ArticleTutor/internal/domain"
)

// Response shapes mirror the persisted entity graph. Slices are always
// present (never null) so clients can iterate without guarding.

type articleResponse struct {
	ID               int64              `json:"id"`
	URL              string             `json:"url"`
	Title            string             `json:"title"`
	Source           string             `json:"source"`
	Summary          string             `json:"summary"`
	ReadingTime      int                `json:"reading_time"`
	Difficulty       string             `json:"difficulty"`
	Concepts         []conceptResponse  `json:"concepts"`
	Eli5Explanations []eli5Response     `json:"eli5_explanations"`
	Quizzes          []quizResponse     `json:"quizzes"`
	CreatedAt        string             `json:"created_at"`
}

type conceptResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Complexity  string `json:"complexity"`
	Analogy     string `json:"analogy"`
}

type eli5Response struct {
	ID                int64  `json:"id"`
	ConceptName       string `json:"concept_name"`
	SimpleExplanation string `json:"simple_explanation"`
	Analogy           string `json:"analogy"`
	RealWorldExample  string `json:"real_world_example"`
}

type quizResponse struct {
	ID        int64              `json:"id"`
	Questions []questionResponse `json:"questions"`
}

type questionResponse struct {
	ID            int64    `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

type articleSummaryResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Difficulty  string `json:"difficulty"`
	ReadingTime int    `json:"reading_time"`
	CreatedAt   string `json:"created_at"`
}

func toArticleResponse(article *domain.Article) articleResponse {
	resp := articleResponse{
		ID:               article.ID,
		URL:              article.URL,
		Title:            article.Title,
		Source:           article.Source,
		Summary:          article.Summary,
		ReadingTime:      article.ReadingTime,
		Difficulty:       article.Difficulty,
		Concepts:         []conceptResponse{},
		Eli5Explanations: []eli5Response{},
		Quizzes:          []quizResponse{},
		CreatedAt:        formatTime(article.CreatedAt),
	}

	for _, concept := range article.Concepts {
		resp.Concepts = append(resp.Concepts, conceptResponse{
			ID:          concept.ID,
			Name:        concept.Name,
			Description: concept.Description,
			Complexity:  concept.Complexity,
			Analogy:     concept.Analogy,
		})
	}

	for _, eli5 := range article.Eli5Explanations {
		resp.Eli5Explanations = append(resp.Eli5Explanations, eli5Response{
			ID:                eli5.ID,
			ConceptName:       eli5.ConceptName,
			SimpleExplanation: eli5.SimpleExplanation,
			Analogy:           eli5.Analogy,
			RealWorldExample:  eli5.RealWorldExample,
		})
	}

	for _, quiz := range article.Quizzes {
		quizResp := quizResponse{ID: quiz.ID, Questions: []questionResponse{}}
		for _, question := range quiz.Questions {
			options := question.Options
			if options == nil {
				options = []string{}
			}
			quizResp.Questions = append(quizResp.Questions, questionResponse{
				ID:            question.ID,
				Question:      question.Question,
				Type:          question.Type,
				Options:       options,
				CorrectAnswer: question.CorrectAnswer,
				Explanation:   question.Explanation,
				Difficulty:    question.Difficulty,
			})
		}
		resp.Quizzes = append(resp.Quizzes, quizResp)
	}

	return resp
}

func toSummaryResponse(articles []domain.Article) []articleSummaryResponse {
	summaries := make([]articleSummaryResponse, 0, len(articles))
	for _, article := range articles {
		summaries = append(summaries, articleSummaryResponse{
			ID:          article.ID,
			Title:       article.Title,
			URL:         article.URL,
			Difficulty:  article.Difficulty,
			ReadingTime: article.ReadingTime,
			CreatedAt:   formatTime(article.CreatedAt),
		})
	}
	return summaries
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
