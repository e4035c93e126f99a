package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"winereco/internal/services"
	"winereco/pkg/models"
)

var validate = validator.New()

type RecommendationHandler struct {
	reco   *services.RecommendationService
	logger *logrus.Logger
}

func NewRecommendationHandler(reco *services.RecommendationService, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{reco: reco, logger: logger}
}

// Info reports artifact metadata for a style.
func (h *RecommendationHandler) Info(c *gin.Context) {
	style := c.DefaultQuery("style", "reds")
	meta, err := h.reco.ModelInfo(style)
	if err != nil {
		h.logger.WithError(err).WithField("style", style).Error("Failed to load model")
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "MODEL_NOT_FOUND",
				"message": "No artifacts for requested style",
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"style":    style,
		"rows":     meta.Rows,
		"dims":     meta.Dims,
		"styles":   meta.Styles,
		"num_keys": meta.Rows,
	})
}

// Query serves the raw-similarity path: top-K by cosine against a free-text
// query, no preference adjustment.
func (h *RecommendationHandler) Query(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_QUERY",
				"message": "query parameter is required",
			},
		})
		return
	}
	style := c.DefaultQuery("style", "reds")

	k := 5
	if kStr := c.Query("k"); kStr != "" {
		if parsed, err := strconv.Atoi(kStr); err == nil && parsed > 0 && parsed <= 100 {
			k = parsed
		}
	}

	result, err := h.reco.Query(c.Request.Context(), style, query, k)
	if err != nil {
		h.logger.WithError(err).WithField("style", style).Error("Query failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": "Failed to score query",
			},
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecommendProfile serves the preference-aware path: the full engine over a
// posted user profile.
func (h *RecommendationHandler) RecommendProfile(c *gin.Context) {
	var req models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}
	if req.Style == "" {
		req.Style = "all"
	}
	if req.K == 0 {
		req.K = 5
	}

	result, err := h.reco.RecommendForProfile(req.Style, req.Profile, req.K)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"style":   req.Style,
			"user_id": req.Profile.UserID,
		}).Error("Profile recommendation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
