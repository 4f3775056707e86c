package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPostKey_Create(t *testing.T) {
	keyRepo := &fakeKeyRepository{}
	s := newTestServer(newFakePromptRepository(), keyRepo)

	req := authedRequest("POST", "/keys/null", nil, "user-1")
	req = withUrlParam(req, "key-id", "null")
	rec := httptest.NewRecorder()
	s.handlePostKey(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, keyRepo.keys, 1)
	key := keyRepo.keys[0]
	assert.Equal(t, "user-1", key.OwnerUserID)

	// the preview holds the full "<id>.<secret>" credential until truncated
	keyId, secret, ok := strings.Cut(key.KeyPreview, ".")
	require.True(t, ok)
	assert.Equal(t, key.ID, keyId)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(secret)))
}

func TestPostKey_DeleteNotOwned(t *testing.T) {
	keyRepo := &fakeKeyRepository{keys: []domain.ApiKey{
		{ID: "k1", OwnerUserID: "user-2", KeyHash: "h", KeyPreview: "abcd"},
	}}
	s := newTestServer(newFakePromptRepository(), keyRepo)

	form := strings.NewReader("delete=true")
	req := authedRequest("POST", "/keys/k1", form, "user-1")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withUrlParam(req, "key-id", "k1")
	rec := httptest.NewRecorder()
	s.handlePostKey(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, keyRepo.keys, 1)
}

func TestGetKeys_TruncatesPreview(t *testing.T) {
	keyRepo := &fakeKeyRepository{keys: []domain.ApiKey{
		{ID: "k1", OwnerUserID: "user-1", KeyHash: "h", KeyPreview: "k1.very-long-secret", CreatedAt: time.Now()},
	}}
	s := newTestServer(newFakePromptRepository(), keyRepo)

	req := authedRequest("GET", "/keys", nil, "user-1")
	rec := httptest.NewRecorder()
	s.handleGetKeys(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// full credential is rendered this one time, then only the prefix stays
	assert.Contains(t, rec.Body.String(), "k1.very-long-secret")
	assert.Equal(t, "k1.v", keyRepo.keys[0].KeyPreview)
}

func TestApiKeyVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	keyRepo := &fakeKeyRepository{keys: []domain.ApiKey{
		{ID: "k1", OwnerUserID: "user-1", KeyHash: string(hash), KeyPreview: "k1.s"},
	}}
	s := newTestServer(newFakePromptRepository(), keyRepo)

	var gotKey domain.ApiKey
	handler := s.apiKeyVerifier(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = ApiKeyFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/v1/prompts", nil)
	req.Header.Set("Authorization", "Bearer k1.s3cret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotKey.OwnerUserID)
}

func TestApiKeyVerifier_Rejects(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	keyRepo := &fakeKeyRepository{keys: []domain.ApiKey{
		{ID: "k1", OwnerUserID: "user-1", KeyHash: string(hash), KeyPreview: "k1.s"},
	}}
	s := newTestServer(newFakePromptRepository(), keyRepo)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed credential", "Bearer k1s3cret"},
		{"wrong secret", "Bearer k1.wrong"},
		{"unknown key id", "Bearer k2.s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := s.apiKeyVerifier(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			req := httptest.NewRequest("GET", "/api/v1/prompts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}
