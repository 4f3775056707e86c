package repository

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/promptdeck/promptdeck/internal/domain"
)

type postgresKeyRepository struct {
	conn Connection
}

func NewPostgresKey(conn Connection) domain.ApiKeyRepository {
	return &postgresKeyRepository{
		conn: conn,
	}
}

// GetByID implements domain.ApiKeyRepository.
func (p *postgresKeyRepository) GetByID(ctx context.Context, id string) (domain.ApiKey, error) {
	var key domain.ApiKey
	rows, err := p.conn.Query(ctx, "SELECT * FROM api_keys WHERE id = $1", id)
	if err != nil {
		return key, err
	}
	err = pgxscan.ScanOne(&key, rows)
	if err != nil {
		if pgxscan.NotFound(err) {
			return key, domain.ErrNotFound
		}
		return key, err
	}
	return key, nil
}

// GetByUserID implements domain.ApiKeyRepository.
func (p *postgresKeyRepository) GetByUserID(ctx context.Context, userID string) ([]domain.ApiKey, error) {
	keys := make([]domain.ApiKey, 0)
	err := pgxscan.Select(ctx, p.conn, &keys, "SELECT * FROM api_keys WHERE owner_user_id = $1", userID)
	return keys, err
}

// Create implements domain.ApiKeyRepository.
func (p *postgresKeyRepository) Create(ctx context.Context, key *domain.ApiKey) error {
	query := `
		INSERT INTO api_keys (id, owner_user_id, key_hash, key_preview, created_at)
		VALUES ($1, $2, $3, $4, NOW())`
	_, err := p.conn.Exec(ctx, query, key.ID, key.OwnerUserID, key.KeyHash, key.KeyPreview)
	return err
}

// UpdateKeyPreview implements domain.ApiKeyRepository.
func (p *postgresKeyRepository) UpdateKeyPreview(ctx context.Context, apiKeyID string, keyPreview string) error {
	_, err := p.conn.Exec(ctx, "UPDATE api_keys SET key_preview = $1, updated_at = NOW() WHERE id = $2", keyPreview, apiKeyID)
	return err
}

// Delete implements domain.ApiKeyRepository.
func (p *postgresKeyRepository) Delete(ctx context.Context, keyID string) error {
	_, err := p.conn.Exec(ctx, "DELETE FROM api_keys WHERE id = $1", keyID)
	return err
}
