package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LINKA-Service/ai/ai"
	"github.com/LINKA-Service/ai/middleware"
	"github.com/LINKA-Service/ai/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConsultationHandler handles HTTP requests for consultation sessions
type ConsultationHandler struct {
	consultationService *service.ConsultationService
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(consultationService *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultationService: consultationService}
}

// CreateConsultationRequest represents the request body for opening a session
type CreateConsultationRequest struct {
	CaseID  string  `json:"case_id" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	GroupID *string `json:"group_id"`
}

// CreateConsultation handles POST /api/consultations
func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_REQUEST", "message": err.Error()},
		})
		return
	}

	caseID, err := uuid.Parse(req.CaseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid case ID format"},
		})
		return
	}

	var groupID *uuid.UUID
	if req.GroupID != nil {
		id, err := uuid.Parse(*req.GroupID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_ID", "message": "Invalid group ID format"},
			})
			return
		}
		groupID = &id
	}

	consultation, err := h.consultationService.CreateConsultation(c.Request.Context(), service.CreateConsultationRequest{
		CaseID:  caseID,
		Name:    req.Name,
		GroupID: groupID,
	}, userID)
	if err != nil {
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": consultation})
}

// ListConsultations handles GET /api/consultations
func (h *ConsultationHandler) ListConsultations(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultations, err := h.consultationService.ListConsultations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "LIST_FAILED", "message": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": consultations})
}

// GetConsultation handles GET /api/consultations/:id
func (h *ConsultationHandler) GetConsultation(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid consultation ID format"},
		})
		return
	}

	consultation, err := h.consultationService.GetConsultation(c.Request.Context(), consultationID, userID)
	if err != nil {
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": consultation})
}

// DeleteConsultation handles DELETE /api/consultations/:id
func (h *ConsultationHandler) DeleteConsultation(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid consultation ID format"},
		})
		return
	}

	if err := h.consultationService.DeleteConsultation(c.Request.Context(), consultationID, userID); err != nil {
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"message": "Consultation deleted successfully"}})
}

// ListMessages handles GET /api/consultations/:id/messages
func (h *ConsultationHandler) ListMessages(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid consultation ID format"},
		})
		return
	}

	skip := 0
	if v := c.Query("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := h.consultationService.ListMessages(c.Request.Context(), consultationID, userID, skip, limit)
	if err != nil {
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
}

// CreateMessageRequest represents the request body for posting a message
type CreateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateMessage handles POST /api/consultations/:id/messages
func (h *ConsultationHandler) CreateMessage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid consultation ID format"},
		})
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_REQUEST", "message": err.Error()},
		})
		return
	}

	message, err := h.consultationService.CreateMessage(c.Request.Context(), consultationID, userID, req.Content)
	if err != nil {
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": message})
}

// CreateAIMessage handles POST /api/consultations/:id/messages/ai
func (h *ConsultationHandler) CreateAIMessage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	consultationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid consultation ID format"},
		})
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_REQUEST", "message": err.Error()},
		})
		return
	}

	message, err := h.consultationService.CreateAIMessage(c.Request.Context(), consultationID, userID, req.Content)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   gin.H{"code": "UPSTREAM_UNAVAILABLE", "message": "AI consultation is temporarily unavailable"},
			})
			return
		}
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": message})
}

// DeleteMessage handles DELETE /api/consultations/:id/messages/:messageId
func (h *ConsultationHandler) DeleteMessage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_ID", "message": "Invalid message ID format"},
		})
		return
	}

	if err := h.consultationService.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		respondConsultationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"message": "Message deleted successfully"}})
}

func respondConsultationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConsultationNotFound),
		errors.Is(err, service.ErrCaseNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": err.Error()},
		})
	case errors.Is(err, service.ErrConsultationForbidden),
		errors.Is(err, service.ErrCaseForbidden),
		errors.Is(err, service.ErrMessageForbidden):
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
