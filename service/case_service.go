package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LINKA-Service/ai/ai"
	"github.com/LINKA-Service/ai/models"
	"github.com/LINKA-Service/ai/repository"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound  = errors.New("case not found")
	ErrCaseForbidden = errors.New("only the case owner may do this")
	ErrCaseRejected  = errors.New("invalid or inappropriate case content")
)

// CaseService handles the case intake pipeline: validation, screening,
// titling, persistence, and semantic indexing of approved cases.
type CaseService struct {
	caseRepo  *repository.CaseRepository
	screening *ai.ScreeningEngine
	index     *SemanticIndex
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// WithCaseRepository sets the case repository
func WithCaseRepository(repo *repository.CaseRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.caseRepo = repo
	}
}

// WithScreeningEngine sets the screening engine
func WithScreeningEngine(engine *ai.ScreeningEngine) CaseServiceOption {
	return func(s *CaseService) {
		s.screening = engine
	}
}

// WithSemanticIndex sets the semantic index
func WithSemanticIndex(index *SemanticIndex) CaseServiceOption {
	return func(s *CaseService) {
		s.index = index
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCaseRequest represents a case submission
type CreateCaseRequest struct {
	UserID         uuid.UUID
	CaseType       models.CaseType
	CaseTypeDetail *string
	Statement      string
	ScammerInfos   []models.ScammerInfo
}

// CreateCase screens and titles the submission, persists it, and indexes it
// when approved. A rejected screening is terminal: nothing is persisted.
// Screening or titling failures abort the submission, so no case ever exists
// without both a status and a title.
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*models.Case, error) {
	if s.caseRepo == nil || s.screening == nil {
		return nil, errors.New("case service not fully configured")
	}

	c := &models.Case{
		UserID:         req.UserID,
		CaseType:       req.CaseType,
		CaseTypeDetail: req.CaseTypeDetail,
		Statement:      req.Statement,
		ScammerInfos:   req.ScammerInfos,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	status, err := s.screening.Screen(ctx, c.CaseType, c.Statement, flattenScammerInfos(c.ScammerInfos))
	if err != nil {
		return nil, err
	}
	if status == models.CaseStatusRejected {
		return nil, ErrCaseRejected
	}
	c.Status = status

	title, err := s.screening.Title(ctx, c.Statement)
	if err != nil {
		return nil, err
	}
	c.Title = title

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist case: %w", err)
	}

	// Only approved cases enter the semantic index. Indexing is best-effort:
	// a failure leaves the case perfectly valid, just not searchable yet.
	if c.Status == models.CaseStatusApproved && s.index != nil {
		s.index.IndexCase(ctx, c)
	}

	return c, nil
}

// GetCase retrieves a case owned by the given user.
func (s *CaseService) GetCase(ctx context.Context, caseID, userID uuid.UUID) (*models.Case, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	if c.UserID != userID {
		return nil, ErrCaseForbidden
	}
	return c, nil
}

// ListCases retrieves all cases of a user.
func (s *CaseService) ListCases(ctx context.Context, userID uuid.UUID) ([]*models.Case, error) {
	return s.caseRepo.ListByUserID(ctx, userID)
}

// DeleteCase removes a case and its index entry. Only the owner may delete.
func (s *CaseService) DeleteCase(ctx context.Context, caseID, userID uuid.UUID) error {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return ErrCaseNotFound
	}
	if c.UserID != userID {
		return ErrCaseForbidden
	}

	if err := s.caseRepo.Delete(ctx, caseID); err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}

	if s.index != nil {
		s.index.DeleteCase(ctx, caseID)
	}
	return nil
}

// GetSimilarCases returns approved cases similar to the given one, excluding
// the case itself. An empty result is normal for pending cases or on any
// search-layer failure.
func (s *CaseService) GetSimilarCases(ctx context.Context, caseID, userID uuid.UUID, limit int) ([]SimilarCase, error) {
	c, err := s.GetCase(ctx, caseID, userID)
	if err != nil {
		return nil, err
	}
	if s.index == nil {
		return nil, nil
	}
	return s.index.SearchByCase(ctx, c, limit, nil), nil
}

// flattenScammerInfos renders scammer infos for the screening prompt.
func flattenScammerInfos(infos []models.ScammerInfo) string {
	if len(infos) == 0 {
		return "없음"
	}
	parts := make([]string, len(infos))
	for i, info := range infos {
		parts[i] = fmt.Sprintf("%s:%s", info.InfoType.Label(), info.Value)
	}
	return strings.Join(parts, ", ")
}
