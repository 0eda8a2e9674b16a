package usecase

import "ArticleTutor/internal/domain"

// Normalization defaults. The model is asked for a complete object, but a
// partially filled reply must still yield a usable record set, so every
// missing field is replaced field-by-field rather than rejecting the entry.
const (
	defaultReadingTime  = 5
	defaultDifficulty   = "intermediate"
	defaultComplexity   = "medium"
	defaultQuestionType = "multiple_choice"
	defaultQuestionDiff = "medium"
)

// NormalizeAnalysis maps the model's loosely-typed JSON into the fixed
// analysis shape. The extractor's title is used when the model omits one.
func NormalizeAnalysis(raw map[string]any, fallbackTitle string) domain.Analysis {
	analysis := domain.Analysis{
		Title:       stringField(raw, "title", fallbackTitle),
		Summary:     stringField(raw, "summary", ""),
		Source:      stringField(raw, "source", ""),
		ReadingTime: intField(raw, "reading_time", defaultReadingTime),
		Difficulty:  stringField(raw, "difficulty", defaultDifficulty),
	}

	for _, entry := range objectSlice(raw, "key_concepts") {
		analysis.Concepts = append(analysis.Concepts, domain.ConceptDraft{
			Name:        stringField(entry, "name", ""),
			Description: stringField(entry, "description", ""),
			Complexity:  stringField(entry, "complexity", defaultComplexity),
			Analogy:     stringField(entry, "analogy", ""),
		})
	}

	for _, entry := range objectSlice(raw, "eli5_explanations") {
		analysis.Eli5Explanations = append(analysis.Eli5Explanations, domain.Eli5Draft{
			ConceptName:       stringField(entry, "concept_name", ""),
			SimpleExplanation: stringField(entry, "simple_explanation", ""),
			Analogy:           stringField(entry, "analogy", ""),
			RealWorldExample:  stringField(entry, "real_world_example", ""),
		})
	}

	for _, entry := range objectSlice(raw, "quiz_questions") {
		analysis.Questions = append(analysis.Questions, domain.QuestionDraft{
			Question:      stringField(entry, "question", ""),
			Type:          stringField(entry, "type", defaultQuestionType),
			Options:       stringSlice(entry, "options"),
			CorrectAnswer: stringField(entry, "correct_answer", ""),
			Explanation:   stringField(entry, "explanation", ""),
			Difficulty:    stringField(entry, "difficulty", defaultQuestionDiff),
		})
	}

	return analysis
}

// NormalizeFeedback maps the feedback reply into its fixed shape, with empty
// slices instead of nulls so serialization never emits JSON null.
func NormalizeFeedback(raw map[string]any) domain.Feedback {
	return domain.Feedback{
		UnderstandingScore: intField(raw, "understanding_score", 0),
		Feedback:           stringField(raw, "feedback", ""),
		Gaps:               stringSlice(raw, "gaps"),
		Suggestions:        stringSlice(raw, "suggestions"),
		Strengths:          stringSlice(raw, "strengths"),
		RevisedExplanation: stringField(raw, "revised_explanation", ""),
	}
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

func intField(m map[string]any, key string, fallback int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func stringSlice(m map[string]any, key string) []string {
	out := []string{}
	raw, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectSlice(m map[string]any, key string) []map[string]any {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
