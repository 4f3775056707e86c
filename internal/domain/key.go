package domain

import (
	"context"
	"time"
)

type ApiKey struct {
	ID          string
	OwnerUserID string
	KeyHash     string
	KeyPreview  string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type ApiKeyRepository interface {
	GetByID(context.Context, string) (ApiKey, error)
	GetByUserID(context.Context, string) ([]ApiKey, error)
	Create(context.Context, *ApiKey) error
	UpdateKeyPreview(ctx context.Context, apiKeyID string, keyPreview string) error
	Delete(context.Context, string) error
}
