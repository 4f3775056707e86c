package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/promptdeck/promptdeck/internal/domain"
)

type postgresPromptRepository struct {
	conn Connection
}

func NewPostgresPrompt(conn Connection) domain.PromptRepository {
	return &postgresPromptRepository{conn: conn}
}

// GetByID implements domain.PromptRepository.
func (p *postgresPromptRepository) GetByID(ctx context.Context, id int64) (domain.Prompt, error) {
	var prompt domain.Prompt
	rows, err := p.conn.Query(ctx, "SELECT * FROM prompts WHERE id = $1", id)
	if err != nil {
		return prompt, err
	}
	err = pgxscan.ScanOne(&prompt, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return prompt, domain.ErrNotFound
		}
		return prompt, err
	}
	return prompt, nil
}

// GetByUserID implements domain.PromptRepository.
func (p *postgresPromptRepository) GetByUserID(ctx context.Context, userId string) ([]domain.Prompt, error) {
	prompts := make([]domain.Prompt, 0)
	query := `
		SELECT * FROM prompts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	err := pgxscan.Select(ctx, p.conn, &prompts, query, userId)
	if err != nil {
		return prompts, err
	}
	return prompts, nil
}

// Create implements domain.PromptRepository.
func (p *postgresPromptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	query := `
		INSERT INTO prompts (user_id, name, description, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING *`
	return pgxscan.Get(ctx, p.conn, prompt, query, prompt.UserID, prompt.Name, prompt.Description, prompt.Content)
}

// Update implements domain.PromptRepository. The owner is part of the match,
// so updating a foreign prompt reports ErrNotFound.
func (p *postgresPromptRepository) Update(ctx context.Context, prompt *domain.Prompt) error {
	query := `
		UPDATE prompts
		SET name = $1, description = $2, content = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING *`
	err := pgxscan.Get(ctx, p.conn, prompt, query, prompt.Name, prompt.Description, prompt.Content, prompt.ID, prompt.UserID)
	if pgxscan.NotFound(err) {
		return domain.ErrNotFound
	}
	return err
}

// Delete implements domain.PromptRepository.
func (p *postgresPromptRepository) Delete(ctx context.Context, id int64, userID string) error {
	tag, err := p.conn.Exec(ctx, "DELETE FROM prompts WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll implements domain.PromptRepository.
func (p *postgresPromptRepository) DeleteAll(ctx context.Context) error {
	_, err := p.conn.Exec(ctx, "DELETE FROM prompts")
	return err
}

// CreateBatch implements domain.PromptRepository.
func (p *postgresPromptRepository) CreateBatch(ctx context.Context, prompts []domain.Prompt) error {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	query := `
		INSERT INTO prompts (user_id, name, description, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	for _, prompt := range prompts {
		_, err = tx.Exec(ctx, query, prompt.UserID, prompt.Name, prompt.Description, prompt.Content)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
