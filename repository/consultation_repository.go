package repository

import (
	"context"
	"fmt"

	"github.com/LINKA-Service/ai/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConsultationRepository handles database operations for consultations and
// their messages
type ConsultationRepository struct {
	db *pgxpool.Pool
}

// NewConsultationRepository creates a new consultation repository
func NewConsultationRepository(db *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// Create inserts a new consultation session.
func (r *ConsultationRepository) Create(ctx context.Context, c *models.Consultation) error {
	query := `
		INSERT INTO consultations (case_id, name, author_id, group_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		c.CaseID,
		c.Name,
		c.AuthorID,
		c.GroupID,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID retrieves a consultation without its messages.
func (r *ConsultationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Consultation, error) {
	c := &models.Consultation{}
	query := `
		SELECT id, case_id, name, author_id, group_id, created_at
		FROM consultations
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.CaseID,
		&c.Name,
		&c.AuthorID,
		&c.GroupID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListByAuthor retrieves a user's consultations, newest first.
func (r *ConsultationRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Consultation, error) {
	return r.list(ctx, `
		SELECT id, case_id, name, author_id, group_id, created_at
		FROM consultations
		WHERE author_id = $1
		ORDER BY created_at DESC`, authorID)
}

// ListByGroup retrieves a group's consultations, newest first.
func (r *ConsultationRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Consultation, error) {
	return r.list(ctx, `
		SELECT id, case_id, name, author_id, group_id, created_at
		FROM consultations
		WHERE group_id = $1
		ORDER BY created_at DESC`, groupID)
}

func (r *ConsultationRepository) list(ctx context.Context, query string, arg interface{}) ([]*models.Consultation, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consultations []*models.Consultation
	for rows.Next() {
		c := &models.Consultation{}
		err := rows.Scan(&c.ID, &c.CaseID, &c.Name, &c.AuthorID, &c.GroupID, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		consultations = append(consultations, c)
	}
	return consultations, rows.Err()
}

// Delete removes a consultation; messages go with it via cascade.
func (r *ConsultationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	return err
}

// CreateMessage appends a message to a consultation. A nil authorID marks an
// assistant message.
func (r *ConsultationRepository) CreateMessage(ctx context.Context, m *models.ConsultationMessage) error {
	query := `
		INSERT INTO consultation_messages (consultation_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		m.ConsultationID,
		m.AuthorID,
		m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

// GetMessage retrieves a single message.
func (r *ConsultationRepository) GetMessage(ctx context.Context, id uuid.UUID) (*models.ConsultationMessage, error) {
	m := &models.ConsultationMessage{}
	query := `
		SELECT id, consultation_id, author_id, content, created_at
		FROM consultation_messages
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.ConsultationID,
		&m.AuthorID,
		&m.Content,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages retrieves messages in chronological order. This order is the
// canonical conversation order fed to the language model.
func (r *ConsultationRepository) ListMessages(ctx context.Context, consultationID uuid.UUID, skip, limit int) ([]models.ConsultationMessage, error) {
	query := `
		SELECT id, consultation_id, author_id, content, created_at
		FROM consultation_messages
		WHERE consultation_id = $1
		ORDER BY created_at ASC`

	args := []interface{}{consultationID}
	argIndex := 2

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
	}
	if skip > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, skip)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ConsultationMessage
	for rows.Next() {
		var m models.ConsultationMessage
		err := rows.Scan(&m.ID, &m.ConsultationID, &m.AuthorID, &m.Content, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteMessage removes a single message.
func (r *ConsultationRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM consultation_messages WHERE id = $1`, id)
	return err
}
