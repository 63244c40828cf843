package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LINKA-Service/ai/ai"
	"github.com/LINKA-Service/ai/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseIndexRepository stores case embeddings in the case_index pgvector
// table. Entries are keyed by case id, so repeated indexing of the same case
// overwrites in a single statement instead of delete-then-reinsert.
type CaseIndexRepository struct {
	db *pgxpool.Pool
}

// NewCaseIndexRepository creates a new case index repository
func NewCaseIndexRepository(db *pgxpool.Pool) *CaseIndexRepository {
	return &CaseIndexRepository{db: db}
}

// ScammerInfoSummary is the denormalized scammer info stored in the payload.
type ScammerInfoSummary struct {
	InfoType models.ScammerInfoType `json:"info_type"`
	Value    string                 `json:"value"`
}

// IndexEntry is the vector plus denormalized payload for one case.
type IndexEntry struct {
	CaseID       uuid.UUID
	Embedding    []float32
	CaseType     models.CaseType
	Title        string
	Statement    string
	Status       models.CaseStatus
	ScammerInfos []ScammerInfoSummary
	CreatedAt    time.Time
	IndexedAt    time.Time
}

// IndexMatch is a search hit with its cosine similarity score.
type IndexMatch struct {
	CaseID       uuid.UUID
	CaseType     models.CaseType
	Title        string
	Statement    string
	ScammerInfos []ScammerInfoSummary
	Score        float64
	CreatedAt    time.Time
}

// SearchParams restricts a nearest-neighbor query. Status approved is always
// enforced; CaseType and ExcludeCaseID are optional must/must-not filters.
type SearchParams struct {
	Embedding      []float32
	CaseType       *models.CaseType
	ExcludeCaseID  *uuid.UUID
	Limit          int
	ScoreThreshold float64
}

// formatVector formats an embedding vector as a pgvector literal for pgx
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Upsert inserts or overwrites the entry for entry.CaseID.
func (r *CaseIndexRepository) Upsert(ctx context.Context, entry IndexEntry) error {
	if len(entry.Embedding) != ai.EmbeddingDimension {
		return fmt.Errorf("embedding must be %d dimensions, got %d", ai.EmbeddingDimension, len(entry.Embedding))
	}

	infosJSON, err := json.Marshal(entry.ScammerInfos)
	if err != nil {
		return fmt.Errorf("failed to marshal scammer infos: %w", err)
	}

	query := `
		INSERT INTO case_index (
			case_id, embedding, case_type, title, statement, status,
			scammer_infos, created_at, indexed_at
		) VALUES ($1, $2::vector, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (case_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			case_type = EXCLUDED.case_type,
			title = EXCLUDED.title,
			statement = EXCLUDED.statement,
			status = EXCLUDED.status,
			scammer_infos = EXCLUDED.scammer_infos,
			created_at = EXCLUDED.created_at,
			indexed_at = EXCLUDED.indexed_at`

	_, err = r.db.Exec(ctx, query,
		entry.CaseID,
		formatVector(entry.Embedding),
		entry.CaseType,
		entry.Title,
		entry.Statement,
		entry.Status,
		string(infosJSON),
		entry.CreatedAt,
		entry.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert case index entry: %w", err)
	}
	return nil
}

// Search runs a filtered nearest-neighbor query ordered by descending cosine
// similarity.
func (r *CaseIndexRepository) Search(ctx context.Context, params SearchParams) ([]IndexMatch, error) {
	if len(params.Embedding) != ai.EmbeddingDimension {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", ai.EmbeddingDimension, len(params.Embedding))
	}

	vectorStr := formatVector(params.Embedding)

	conditions := []string{"status = 'approved'"}
	args := []interface{}{vectorStr}
	argIndex := 2

	if params.CaseType != nil {
		conditions = append(conditions, fmt.Sprintf("case_type = $%d", argIndex))
		args = append(args, *params.CaseType)
		argIndex++
	}
	if params.ExcludeCaseID != nil {
		conditions = append(conditions, fmt.Sprintf("case_id != $%d", argIndex))
		args = append(args, *params.ExcludeCaseID)
		argIndex++
	}

	conditions = append(conditions, fmt.Sprintf("1 - (embedding <=> $1::vector) >= $%d", argIndex))
	args = append(args, params.ScoreThreshold)
	argIndex++

	args = append(args, params.Limit)

	query := fmt.Sprintf(`
		SELECT
			case_id,
			case_type,
			title,
			statement,
			scammer_infos,
			created_at,
			1 - (embedding <=> $1::vector) AS score
		FROM case_index
		WHERE %s
		ORDER BY embedding <=> $1::vector
		LIMIT $%d`, strings.Join(conditions, " AND "), argIndex)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query case index: %w", err)
	}
	defer rows.Close()

	var matches []IndexMatch
	for rows.Next() {
		var match IndexMatch
		var infosJSON []byte
		err := rows.Scan(
			&match.CaseID,
			&match.CaseType,
			&match.Title,
			&match.Statement,
			&infosJSON,
			&match.CreatedAt,
			&match.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan index match: %w", err)
		}
		if len(infosJSON) > 0 {
			if err := json.Unmarshal(infosJSON, &match.ScammerInfos); err != nil {
				return nil, fmt.Errorf("failed to unmarshal scammer infos: %w", err)
			}
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating index matches: %w", err)
	}

	return matches, nil
}

// Delete removes the entry for caseID. Deleting a missing entry is not an
// error.
func (r *CaseIndexRepository) Delete(ctx context.Context, caseID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM case_index WHERE case_id = $1`, caseID)
	if err != nil {
		return fmt.Errorf("failed to delete case index entry: %w", err)
	}
	return nil
}
