package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ArticleTutor/internal/domain"
	"ArticleTutor/internal/ports"
	"ArticleTutor/internal/usecase"
)

// Service is the application boundary the handlers drive.
type Service interface {
	Analyze(ctx context.Context, url string) (*domain.Article, error)
	Feedback(ctx context.Context, explanation, conceptName, originalDescription string) (domain.Feedback, error)
	GetArticle(ctx context.Context, id int64) (*domain.Article, error)
	ListArticles(ctx context.Context) ([]domain.Article, error)
}

// Handler exposes the learning-material API over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler wires the service and a component logger.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type feedbackRequest struct {
	Explanation         string `json:"explanation"`
	ConceptName         string `json:"concept_name"`
	OriginalDescription string `json:"original_description"`
}

// AnalyzeArticle handles POST /api/analyze.
func (h *Handler) AnalyzeArticle(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	article, err := h.service.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		h.respondAnalyzeError(c, req.URL, err)
		return
	}

	c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *Handler) respondAnalyzeError(c *gin.Context, url string, err error) {
	var fetchErr *usecase.FetchError
	var analysisErr *usecase.AnalysisError

	switch {
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch article: " + fetchErr.Cause.Error()})
	case errors.As(err, &analysisErr):
		h.logger.Error("article analysis failed", "url", url, "error", analysisErr.Cause)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed: " + analysisErr.Cause.Error()})
	default:
		h.logger.Error("analyze request failed", "url", url, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// GetArticle handles GET /api/articles/:id.
func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	article, err := h.service.GetArticle(c.Request.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		h.logger.Error("load article failed", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toArticleResponse(article))
}

// ListArticles handles GET /api/articles.
func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.service.ListArticles(c.Request.Context())
	if err != nil {
		h.logger.Error("list articles failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(articles))
}

// FeynmanFeedback handles POST /api/feynman-feedback.
func (h *Handler) FeynmanFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Explanation) == "" || strings.TrimSpace(req.ConceptName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "explanation and concept_name are required"})
		return
	}

	feedback, err := h.service.Feedback(c.Request.Context(), req.Explanation, req.ConceptName, req.OriginalDescription)
	if err != nil {
		var analysisErr *usecase.AnalysisError
		if errors.As(err, &analysisErr) {
			h.logger.Error("feedback generation failed", "concept", req.ConceptName, "error", analysisErr.Cause)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedback generation failed: " + analysisErr.Cause.Error()})
			return
		}
		h.logger.Error("feedback request failed", "concept", req.ConceptName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// Health handles GET /healthcheck.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
