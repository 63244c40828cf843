package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LINKA-Service/ai/ai"
	"github.com/LINKA-Service/ai/middleware"
	"github.com/LINKA-Service/ai/models"
	"github.com/LINKA-Service/ai/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles HTTP requests for cases
type CaseHandler struct {
	caseService *service.CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// ScammerInfoInput is one scammer detail in a case submission
type ScammerInfoInput struct {
	InfoType string `json:"info_type" binding:"required"`
	Value    string `json:"value" binding:"required,max=200"`
}

// CreateCaseRequest represents the request body for submitting a case
type CreateCaseRequest struct {
	CaseType       string             `json:"case_type" binding:"required"`
	CaseTypeDetail *string            `json:"case_type_detail"`
	Statement      string             `json:"statement" binding:"required"`
	ScammerInfos   []ScammerInfoInput `json:"scammer_infos"`
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_REQUEST", "message": err.Error()},
		})
		return
	}

	infos := make([]models.ScammerInfo, 0, len(req.ScammerInfos))
	for _, info := range req.ScammerInfos {
		infos = append(infos, models.ScammerInfo{
			InfoType: models.ScammerInfoType(info.InfoType),
			Value:    info.Value,
		})
	}

	result, err := h.caseService.CreateCase(c.Request.Context(), service.CreateCaseRequest{
		UserID:         userID,
		CaseType:       models.CaseType(req.CaseType),
		CaseTypeDetail: req.CaseTypeDetail,
		Statement:      req.Statement,
		ScammerInfos:   infos,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaseRejected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   gin.H{"code": "CASE_REJECTED", "message": err.Error()},
			})
		case errors.Is(err, ai.ErrUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   gin.H{"code": "UPSTREAM_UNAVAILABLE", "message": "Case screening is temporarily unavailable"},
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_CASE", "message": err.Error()},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	cases, err := h.caseService.ListCases(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "LIST_FAILED", "message": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cases})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid case ID format"},
		})
		return
	}

	result, err := h.caseService.GetCase(c.Request.Context(), caseID, userID)
	if err != nil {
		respondCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// DeleteCase handles DELETE /api/cases/:id
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid case ID format"},
		})
		return
	}

	if err := h.caseService.DeleteCase(c.Request.Context(), caseID, userID); err != nil {
		respondCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"message": "Case deleted successfully"}})
}

// GetSimilarCases handles GET /api/cases/:id/similar
func (h *CaseHandler) GetSimilarCases(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid case ID format"},
		})
		return
	}

	limit := 5
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 20 {
			limit = n
		}
	}

	similar, err := h.caseService.GetSimilarCases(c.Request.Context(), caseID, userID, limit)
	if err != nil {
		respondCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": similar})
}

func respondCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "Case not found"},
		})
	case errors.Is(err, service.ErrCaseForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "FORBIDDEN", "message": err.Error()},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL", "message": err.Error()},
		})
	}
}
