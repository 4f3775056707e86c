package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_CreatedAtHasDefault(t *testing.T) {
	files := []string{
		"migrations/000001_create_prompts.up.sql",
		"migrations/000002_create_api_keys.up.sql",
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			sql, err := fs.ReadFile(file)
			require.NoError(t, err)
			// created_at must be storage-assigned even for direct inserts
			assert.Contains(t, string(sql), "created_at TIMESTAMPTZ NOT NULL DEFAULT now()")
		})
	}
}
