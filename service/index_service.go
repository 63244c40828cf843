package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/LINKA-Service/ai/models"
	"github.com/LINKA-Service/ai/repository"

	"github.com/google/uuid"
)

const (
	// defaultScoreThreshold is the minimum cosine similarity for a match.
	defaultScoreThreshold = 0.75

	// maxIndexedStatementLength bounds the statement snapshot in the payload.
	maxIndexedStatementLength = 500
)

// DocumentEncoder embeds query and document text.
type DocumentEncoder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
	EncodeDocument(ctx context.Context, text string) ([]float32, error)
}

// CaseIndexStore is the vector-index collaborator.
type CaseIndexStore interface {
	Upsert(ctx context.Context, entry repository.IndexEntry) error
	Search(ctx context.Context, params repository.SearchParams) ([]repository.IndexMatch, error)
	Delete(ctx context.Context, caseID uuid.UUID) error
}

// SimilarCase is one similarity search result.
type SimilarCase struct {
	CaseID          uuid.UUID                       `json:"case_id"`
	Title           string                          `json:"title"`
	CaseType        models.CaseType                 `json:"case_type"`
	Statement       string                          `json:"statement"`
	ScammerInfos    []repository.ScammerInfoSummary `json:"scammer_infos"`
	SimilarityScore float64                         `json:"similarity_score"`
	CreatedAt       time.Time                       `json:"created_at"`
}

// SemanticIndex embeds approved cases and serves nearest-neighbor search over
// them. Indexing and search are best-effort relative to case CRUD: every
// underlying failure is logged and absorbed, never propagated.
type SemanticIndex struct {
	encoder        DocumentEncoder
	store          CaseIndexStore
	scoreThreshold float64
}

// SemanticIndexOption is a functional option for SemanticIndex
type SemanticIndexOption func(*SemanticIndex)

// WithScoreThreshold overrides the default similarity threshold
func WithScoreThreshold(threshold float64) SemanticIndexOption {
	return func(s *SemanticIndex) {
		s.scoreThreshold = threshold
	}
}

// NewSemanticIndex creates a semantic index over the given encoder and store.
func NewSemanticIndex(encoder DocumentEncoder, store CaseIndexStore, opts ...SemanticIndexOption) *SemanticIndex {
	s := &SemanticIndex{
		encoder:        encoder,
		store:          store,
		scoreThreshold: defaultScoreThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildSearchText renders the canonical search document for a case: type
// label, optional detail, title, statement, and flattened scammer infos.
func BuildSearchText(c *models.Case) string {
	parts := []string{
		fmt.Sprintf("유형: %s", c.CaseType.Label()),
	}

	if c.CaseTypeDetail != nil && *c.CaseTypeDetail != "" {
		parts = append(parts, fmt.Sprintf("세부유형: %s", *c.CaseTypeDetail))
	}

	parts = append(parts,
		fmt.Sprintf("제목: %s", c.Title),
		fmt.Sprintf("내용: %s", c.Statement),
	)

	if len(c.ScammerInfos) > 0 {
		infoTexts := make([]string, len(c.ScammerInfos))
		for i, info := range c.ScammerInfos {
			infoTexts[i] = fmt.Sprintf("%s:%s", info.InfoType.Label(), info.Value)
		}
		parts = append(parts, fmt.Sprintf("정보: %s", strings.Join(infoTexts, ", ")))
	}

	return strings.Join(parts, "\n")
}

// BuildIndexEntry assembles the stored payload for a case and its embedding.
// The statement snapshot is truncated so the payload stays bounded.
func BuildIndexEntry(c *models.Case, embedding []float32) repository.IndexEntry {
	infos := make([]repository.ScammerInfoSummary, 0, len(c.ScammerInfos))
	for _, info := range c.ScammerInfos {
		infos = append(infos, repository.ScammerInfoSummary{
			InfoType: info.InfoType,
			Value:    info.Value,
		})
	}

	return repository.IndexEntry{
		CaseID:       c.ID,
		Embedding:    embedding,
		CaseType:     c.CaseType,
		Title:        c.Title,
		Statement:    truncateRunes(c.Statement, maxIndexedStatementLength),
		Status:       c.Status,
		ScammerInfos: infos,
		CreatedAt:    c.CreatedAt,
		IndexedAt:    time.Now().UTC(),
	}
}

// IndexCase embeds and upserts the case. Repeated calls for the same case id
// overwrite the prior entry. Returns false on any failure.
func (s *SemanticIndex) IndexCase(ctx context.Context, c *models.Case) bool {
	embedding, err := s.encoder.EncodeDocument(ctx, BuildSearchText(c))
	if err != nil {
		log.Printf("semantic index: failed to embed case %s: %v", c.ID, err)
		return false
	}

	if err := s.store.Upsert(ctx, BuildIndexEntry(c, embedding)); err != nil {
		log.Printf("semantic index: failed to index case %s: %v", c.ID, err)
		return false
	}
	return true
}

// SearchSimilar embeds the query and returns approved cases ordered by
// descending similarity, capped at limit. caseType and excludeCaseID are
// optional filters; a nil threshold falls back to the configured default.
// Returns an empty slice on any failure.
func (s *SemanticIndex) SearchSimilar(
	ctx context.Context,
	queryText string,
	caseType *models.CaseType,
	limit int,
	scoreThreshold *float64,
	excludeCaseID *uuid.UUID,
) []SimilarCase {
	threshold := s.scoreThreshold
	if scoreThreshold != nil {
		threshold = *scoreThreshold
	}

	embedding, err := s.encoder.EncodeQuery(ctx, queryText)
	if err != nil {
		log.Printf("semantic index: failed to embed query: %v", err)
		return nil
	}

	matches, err := s.store.Search(ctx, repository.SearchParams{
		Embedding:      embedding,
		CaseType:       caseType,
		ExcludeCaseID:  excludeCaseID,
		Limit:          limit,
		ScoreThreshold: threshold,
	})
	if err != nil {
		log.Printf("semantic index: search failed: %v", err)
		return nil
	}

	similar := make([]SimilarCase, 0, len(matches))
	for _, match := range matches {
		similar = append(similar, SimilarCase{
			CaseID:          match.CaseID,
			Title:           match.Title,
			CaseType:        match.CaseType,
			Statement:       match.Statement,
			ScammerInfos:    match.ScammerInfos,
			SimilarityScore: math.Round(match.Score*10000) / 10000,
			CreatedAt:       match.CreatedAt,
		})
	}
	return similar
}

// SearchByCase searches for cases similar to the given case: its own search
// document is the query, candidates are restricted to its type, and the case
// itself is excluded from the results.
func (s *SemanticIndex) SearchByCase(ctx context.Context, c *models.Case, limit int, scoreThreshold *float64) []SimilarCase {
	caseType := c.CaseType
	caseID := c.ID
	return s.SearchSimilar(ctx, BuildSearchText(c), &caseType, limit, scoreThreshold, &caseID)
}

// DeleteCase removes the index entry for caseID. Idempotent; returns false
// only on a storage failure.
func (s *SemanticIndex) DeleteCase(ctx context.Context, caseID uuid.UUID) bool {
	if err := s.store.Delete(ctx, caseID); err != nil {
		log.Printf("semantic index: failed to delete case %s: %v", caseID, err)
		return false
	}
	return true
}

// UpdateCase re-derives the entry for an updated case. The entry is keyed by
// case id, so this is a single overwrite with no window in which the entry is
// absent.
func (s *SemanticIndex) UpdateCase(ctx context.Context, c *models.Case) bool {
	return s.IndexCase(ctx, c)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
