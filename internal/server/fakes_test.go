package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	"github.com/promptdeck/promptdeck/internal/domain"
)

type fakePromptRepository struct {
	prompts []domain.Prompt
	nextId  int64
	err     error
}

func newFakePromptRepository(prompts ...domain.Prompt) *fakePromptRepository {
	var maxId int64
	for _, p := range prompts {
		if p.ID > maxId {
			maxId = p.ID
		}
	}
	return &fakePromptRepository{prompts: prompts, nextId: maxId + 1}
}

func (f *fakePromptRepository) GetByID(ctx context.Context, id int64) (domain.Prompt, error) {
	if f.err != nil {
		return domain.Prompt{}, f.err
	}
	for _, p := range f.prompts {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Prompt{}, domain.ErrNotFound
}

func (f *fakePromptRepository) GetByUserID(ctx context.Context, userId string) ([]domain.Prompt, error) {
	if f.err != nil {
		return nil, f.err
	}
	prompts := make([]domain.Prompt, 0)
	for _, p := range f.prompts {
		if p.UserID == userId {
			prompts = append(prompts, p)
		}
	}
	return prompts, nil
}

func (f *fakePromptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	if f.err != nil {
		return f.err
	}
	prompt.ID = f.nextId
	f.nextId++
	prompt.CreatedAt = time.Now()
	f.prompts = append(f.prompts, *prompt)
	return nil
}

func (f *fakePromptRepository) Update(ctx context.Context, prompt *domain.Prompt) error {
	if f.err != nil {
		return f.err
	}
	for i, p := range f.prompts {
		if p.ID == prompt.ID && p.UserID == prompt.UserID {
			now := time.Now()
			p.Name = prompt.Name
			p.Description = prompt.Description
			p.Content = prompt.Content
			p.UpdatedAt = &now
			f.prompts[i] = p
			*prompt = p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakePromptRepository) Delete(ctx context.Context, id int64, userID string) error {
	if f.err != nil {
		return f.err
	}
	for i, p := range f.prompts {
		if p.ID == id && p.UserID == userID {
			f.prompts = append(f.prompts[:i], f.prompts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakePromptRepository) DeleteAll(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.prompts = nil
	return nil
}

func (f *fakePromptRepository) CreateBatch(ctx context.Context, prompts []domain.Prompt) error {
	if f.err != nil {
		return f.err
	}
	for i := range prompts {
		p := prompts[i]
		p.ID = f.nextId
		f.nextId++
		p.CreatedAt = time.Now()
		f.prompts = append(f.prompts, p)
	}
	return nil
}

type fakeKeyRepository struct {
	keys []domain.ApiKey
	err  error
}

func (f *fakeKeyRepository) GetByID(ctx context.Context, id string) (domain.ApiKey, error) {
	if f.err != nil {
		return domain.ApiKey{}, f.err
	}
	for _, k := range f.keys {
		if k.ID == id {
			return k, nil
		}
	}
	return domain.ApiKey{}, domain.ErrNotFound
}

func (f *fakeKeyRepository) GetByUserID(ctx context.Context, userID string) ([]domain.ApiKey, error) {
	if f.err != nil {
		return nil, f.err
	}
	keys := make([]domain.ApiKey, 0)
	for _, k := range f.keys {
		if k.OwnerUserID == userID {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *fakeKeyRepository) Create(ctx context.Context, key *domain.ApiKey) error {
	if f.err != nil {
		return f.err
	}
	key.CreatedAt = time.Now()
	f.keys = append(f.keys, *key)
	return nil
}

func (f *fakeKeyRepository) UpdateKeyPreview(ctx context.Context, apiKeyID string, keyPreview string) error {
	if f.err != nil {
		return f.err
	}
	for i, k := range f.keys {
		if k.ID == apiKeyID {
			f.keys[i].KeyPreview = keyPreview
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeKeyRepository) Delete(ctx context.Context, keyID string) error {
	if f.err != nil {
		return f.err
	}
	for i, k := range f.keys {
		if k.ID == keyID {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestServer(promptRepo domain.PromptRepository, keyRepo domain.ApiKeyRepository) *server {
	return &server{
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		promptRepository: promptRepo,
		keyRepository:    keyRepo,
	}
}

func authedRequest(method string, target string, body io.Reader, userId string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	token := &auth.Token{Subject: userId, UID: userId}
	return req.WithContext(NewContext(req.Context(), token, "refresh-token", nil))
}

func withUrlParam(req *http.Request, key string, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
