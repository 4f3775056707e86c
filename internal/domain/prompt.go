package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Prompt struct {
	ID          int64
	UserID      string
	Name        string
	Description string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ValidateFields checks the user-settable fields. ID, UserID and timestamps
// are assigned by the server/storage and are not validated here.
func (p *Prompt) ValidateFields() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content", ErrMissingField)
	}
	return nil
}

type PromptRepository interface {
	GetByID(context.Context, int64) (Prompt, error)
	// GetByUserID returns the user's prompts, newest first.
	GetByUserID(context.Context, string) ([]Prompt, error)
	// Create assigns ID and CreatedAt on the given prompt.
	Create(context.Context, *Prompt) error
	// Update replaces the mutable fields of the prompt matching ID and
	// UserID, and sets UpdatedAt. Returns ErrNotFound when no such row
	// exists for that owner.
	Update(context.Context, *Prompt) error
	// Delete removes the prompt matching id and userID. Returns
	// ErrNotFound when no such row exists for that owner.
	Delete(ctx context.Context, id int64, userID string) error
	DeleteAll(context.Context) error
	CreateBatch(context.Context, []Prompt) error
}
