package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LINKA-Service/ai/ai"
	"github.com/LINKA-Service/ai/models"
	"github.com/LINKA-Service/ai/repository"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrConsultationNotFound  = errors.New("consultation not found")
	ErrConsultationForbidden = errors.New("access to this consultation is denied")
	ErrGroupNotFound         = errors.New("group not found")
	ErrMessageNotFound       = errors.New("message not found")
	ErrMessageForbidden      = errors.New("can only delete own messages")
)

// ConsultationService handles consultation sessions, their messages, and the
// AI-assisted turns.
type ConsultationService struct {
	consultationRepo *repository.ConsultationRepository
	caseRepo         *repository.CaseRepository
	groupRepo        *repository.GroupRepository
	engine           *ai.ConsultationEngine
}

// ConsultationServiceOption is a functional option for ConsultationService
type ConsultationServiceOption func(*ConsultationService)

// WithConsultationRepository sets the consultation repository
func WithConsultationRepository(repo *repository.ConsultationRepository) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.consultationRepo = repo
	}
}

// WithConsultationCaseRepository sets the case repository
func WithConsultationCaseRepository(repo *repository.CaseRepository) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.caseRepo = repo
	}
}

// WithGroupRepository sets the group repository
func WithGroupRepository(repo *repository.GroupRepository) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.groupRepo = repo
	}
}

// WithConsultationEngine sets the consultation engine
func WithConsultationEngine(engine *ai.ConsultationEngine) ConsultationServiceOption {
	return func(s *ConsultationService) {
		s.engine = engine
	}
}

// NewConsultationService creates a new consultation service
func NewConsultationService(opts ...ConsultationServiceOption) *ConsultationService {
	s := &ConsultationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateConsultationRequest represents a request to open a session
type CreateConsultationRequest struct {
	CaseID  uuid.UUID
	Name    string
	GroupID *uuid.UUID
}

// CreateConsultation opens a session on a case. Only the case owner may do
// this; a group id additionally requires membership.
func (s *ConsultationService) CreateConsultation(ctx context.Context, req CreateConsultationRequest, userID uuid.UUID) (*models.Consultation, error) {
	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	if c.UserID != userID {
		return nil, ErrCaseForbidden
	}

	if req.GroupID != nil {
		exists, err := s.groupRepo.Exists(ctx, *req.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to check group: %w", err)
		}
		if !exists {
			return nil, ErrGroupNotFound
		}
		isMember, err := s.groupRepo.IsMember(ctx, *req.GroupID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check group membership: %w", err)
		}
		if !isMember {
			return nil, ErrConsultationForbidden
		}
	}

	consultation := &models.Consultation{
		CaseID:   req.CaseID,
		Name:     req.Name,
		AuthorID: userID,
		GroupID:  req.GroupID,
	}
	if err := s.consultationRepo.Create(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}
	return consultation, nil
}

// ListConsultations retrieves the user's own sessions.
func (s *ConsultationService) ListConsultations(ctx context.Context, userID uuid.UUID) ([]*models.Consultation, error) {
	return s.consultationRepo.ListByAuthor(ctx, userID)
}

// GetConsultation retrieves a session the user can access.
func (s *ConsultationService) GetConsultation(ctx context.Context, consultationID, userID uuid.UUID) (*models.Consultation, error) {
	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		return nil, ErrConsultationNotFound
	}
	ok, err := s.canAccess(ctx, consultation, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConsultationForbidden
	}
	return consultation, nil
}

// DeleteConsultation removes a session. Only the author may delete.
func (s *ConsultationService) DeleteConsultation(ctx context.Context, consultationID, userID uuid.UUID) error {
	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		return ErrConsultationNotFound
	}
	if consultation.AuthorID != userID {
		return ErrConsultationForbidden
	}
	return s.consultationRepo.Delete(ctx, consultationID)
}

// ListMessages retrieves a session's messages in chronological order.
func (s *ConsultationService) ListMessages(ctx context.Context, consultationID, userID uuid.UUID, skip, limit int) ([]models.ConsultationMessage, error) {
	if _, err := s.GetConsultation(ctx, consultationID, userID); err != nil {
		return nil, err
	}
	return s.consultationRepo.ListMessages(ctx, consultationID, skip, limit)
}

// CreateMessage appends a plain user message to a session.
func (s *ConsultationService) CreateMessage(ctx context.Context, consultationID, userID uuid.UUID, content string) (*models.ConsultationMessage, error) {
	if _, err := s.GetConsultation(ctx, consultationID, userID); err != nil {
		return nil, err
	}

	authorID := userID
	message := &models.ConsultationMessage{
		ConsultationID: consultationID,
		AuthorID:       &authorID,
		Content:        content,
	}
	if err := s.consultationRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}

// DeleteMessage removes a message the user authored.
func (s *ConsultationService) DeleteMessage(ctx context.Context, messageID, userID uuid.UUID) error {
	message, err := s.consultationRepo.GetMessage(ctx, messageID)
	if err != nil {
		return ErrMessageNotFound
	}
	if message.AuthorID == nil || *message.AuthorID != userID {
		return ErrMessageForbidden
	}
	return s.consultationRepo.DeleteMessage(ctx, messageID)
}

// CreateAIMessage runs one AI consultation turn: the stored history plus the
// new question go to the consultation engine, and only after the model call
// succeeds are the user message and the assistant reply persisted, in that
// order. A model failure therefore leaves the session untouched and the turn
// can be retried.
func (s *ConsultationService) CreateAIMessage(ctx context.Context, consultationID, userID uuid.UUID, content string) (*models.ConsultationMessage, error) {
	consultation, err := s.GetConsultation(ctx, consultationID, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.caseRepo.GetByID(ctx, consultation.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	history, err := s.consultationRepo.ListMessages(ctx, consultationID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	answer, err := s.engine.GenerateResponse(ctx, c.Statement, c.CaseType, historyTurns(history), content, true)
	if err != nil {
		return nil, err
	}

	authorID := userID
	userMessage := &models.ConsultationMessage{
		ConsultationID: consultationID,
		AuthorID:       &authorID,
		Content:        content,
	}
	if err := s.consultationRepo.CreateMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	assistantMessage := &models.ConsultationMessage{
		ConsultationID: consultationID,
		AuthorID:       nil,
		Content:        answer,
	}
	if err := s.consultationRepo.CreateMessage(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	return assistantMessage, nil
}

// historyTurns maps stored messages to role-tagged turns, preserving the
// chronological order. Assistant-authored messages (nil author id) map to the
// assistant role; everything else is a user turn.
func historyTurns(messages []models.ConsultationMessage) []ai.Turn {
	turns := make([]ai.Turn, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.FromAssistant() {
			role = openai.ChatMessageRoleAssistant
		}
		turns = append(turns, ai.Turn{Role: role, Content: m.Content})
	}
	return turns
}

func (s *ConsultationService) canAccess(ctx context.Context, consultation *models.Consultation, userID uuid.UUID) (bool, error) {
	if consultation.AuthorID == userID {
		return true, nil
	}
	if consultation.GroupID == nil {
		return false, nil
	}
	return s.groupRepo.IsMember(ctx, *consultation.GroupID, userID)
}
