package repository

import (
	"context"
	"fmt"

	"github.com/LINKA-Service/ai/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for cases and their scammer infos
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = pgx.ErrNoRows

// Create inserts a case together with its scammer infos in one transaction.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO cases (user_id, case_type, case_type_detail, title, statement, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		c.UserID,
		c.CaseType,
		c.CaseTypeDetail,
		c.Title,
		c.Statement,
		c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert case: %w", err)
	}

	for i := range c.ScammerInfos {
		info := &c.ScammerInfos[i]
		info.CaseID = c.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO scammer_infos (case_id, info_type, value) VALUES ($1, $2, $3) RETURNING id`,
			info.CaseID, info.InfoType, info.Value,
		).Scan(&info.ID)
		if err != nil {
			return fmt.Errorf("failed to insert scammer info: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a case with its scammer infos.
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	c := &models.Case{}
	query := `
		SELECT id, user_id, case_type, case_type_detail, title, statement, status, created_at, updated_at
		FROM cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.CaseType,
		&c.CaseTypeDetail,
		&c.Title,
		&c.Statement,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	infos, err := r.listScammerInfos(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ScammerInfos = infos

	return c, nil
}

// ListByUserID retrieves all cases for a user, newest first.
func (r *CaseRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Case, error) {
	query := `
		SELECT id, user_id, case_type, case_type_detail, title, statement, status, created_at, updated_at
		FROM cases
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c := &models.Case{}
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.CaseType,
			&c.CaseTypeDetail,
			&c.Title,
			&c.Statement,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cases {
		infos, err := r.listScammerInfos(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.ScammerInfos = infos
	}

	return cases, nil
}

// ListApproved retrieves all approved cases. Used by the reindex tool.
func (r *CaseRepository) ListApproved(ctx context.Context) ([]*models.Case, error) {
	query := `
		SELECT id, user_id, case_type, case_type_detail, title, statement, status, created_at, updated_at
		FROM cases
		WHERE status = 'approved'
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c := &models.Case{}
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.CaseType,
			&c.CaseTypeDetail,
			&c.Title,
			&c.Statement,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cases {
		infos, err := r.listScammerInfos(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.ScammerInfos = infos
	}

	return cases, nil
}

// Delete removes a case; scammer infos go with it via cascade.
func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	return err
}

func (r *CaseRepository) listScammerInfos(ctx context.Context, caseID uuid.UUID) ([]models.ScammerInfo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, case_id, info_type, value FROM scammer_infos WHERE case_id = $1 ORDER BY id`,
		caseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []models.ScammerInfo
	for rows.Next() {
		var info models.ScammerInfo
		if err := rows.Scan(&info.ID, &info.CaseID, &info.InfoType, &info.Value); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
