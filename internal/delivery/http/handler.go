package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/infrastructure/serpcsv"
	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis *usecase.AnalysisService
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis *usecase.AnalysisService) *Handler {
	return &Handler{analysis: analysis}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "serp-price-checker",
		"version": "1.0.0",
	})
}

// analyzeRequest is the JSON body of POST /api/v1/analysis: the raw rank
// checker CSV export plus what the merchant knows about their own product.
type analyzeRequest struct {
	CSV       string `json:"csv" binding:"required"`
	Reference struct {
		Title  string  `json:"title"`
		URL    string  `json:"url"`
		Domain string  `json:"domain" binding:"required"`
		Price  float64 `json:"price"`
	} `json:"reference" binding:"required"`
}

// Analyze parses a rank checker CSV export and runs the full price analysis
// against the merchant's reference product.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	rows, err := serpcsv.Parse(strings.NewReader(req.CSV))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid csv: " + err.Error()})
		return
	}

	summary, err := h.analysis.Run(c.Request.Context(), usecase.AnalysisRequest{
		Rows:            rows,
		ReferenceTitle:  req.Reference.Title,
		ReferenceURL:    req.Reference.URL,
		ReferenceDomain: req.Reference.Domain,
		ReferencePrice:  req.Reference.Price,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrNoResults):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrIdentityNotResolved):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
