package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/server/html"
	"golang.org/x/crypto/bcrypt"
)

// truncateKeyPreviews shortens freshly created key previews so the full
// credential is only ever visible on the page render right after creation.
func (s *server) truncateKeyPreviews(ctx context.Context, keys []domain.ApiKey) error {
	for _, key := range keys {
		if len(key.KeyPreview) > 4 {
			keyPreview := key.KeyPreview[0:4]
			err := s.keyRepository.UpdateKeyPreview(ctx, key.ID, keyPreview)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *server) handleGetKeys(w http.ResponseWriter, r *http.Request) {
	token, _, _ := TokenFromContext(r.Context())
	errMsgs := make([]string, 0)
	errMsg := r.URL.Query().Get("error")
	if errMsg != "" {
		errMsgs = append(errMsgs, errMsg)
	}
	keys, err := s.keyRepository.GetByUserID(r.Context(), token.Subject)
	if err != nil {
		s.logger.Error("error getting keys by user id", "error", err, "userId", token.Subject)
		errMsgs = append(errMsgs, "Error getting keys")
	}
	err = s.truncateKeyPreviews(r.Context(), keys)
	if err != nil {
		s.logger.Error("error truncating key preview", "error", err)
		errMsgs = append(errMsgs, "Error truncating key preview")
	}
	params := html.KeysParams{
		Title:  "API Keys",
		Errors: errMsgs,
		Keys:   keys,
	}
	html.KeysPage(w, params)
}

func redirectToKeys(w http.ResponseWriter, r *http.Request, errMsg string) {
	http.Redirect(w, r, fmt.Sprintf("/keys/?%v", errorQuery(errMsg)), http.StatusSeeOther)
}

func (s *server) handlePostKey(w http.ResponseWriter, r *http.Request) {
	token, _, _ := TokenFromContext(r.Context())
	errMsg := ""
	keyId := chi.URLParam(r, "key-id")
	delete := r.FormValue("delete") == "true"
	if keyId == "null" {
		keyId = uuid.NewString()
		secret := uuid.NewString()
		secretHashBytes, err := bcrypt.GenerateFromPassword([]byte(secret), 14)
		if err != nil {
			s.logger.Error("error hashing api key", "error", err)
			redirectToKeys(w, r, "failed to hash api key")
			return
		}
		key := domain.ApiKey{
			ID:          keyId,
			OwnerUserID: token.Subject,
			KeyHash:     string(secretHashBytes),
			// KeyPreview holds the full credential until the next page
			// load truncates it
			KeyPreview: keyId + "." + secret,
		}
		err = s.keyRepository.Create(r.Context(), &key)
		if err != nil {
			s.logger.Error("error creating key", "error", err, "keyId", keyId)
			errMsg = "failed to create"
		}
	} else {
		key, err := s.keyRepository.GetByID(r.Context(), keyId)
		if err != nil {
			s.logger.Error("error getting key by id", "error", err, "keyId", keyId)
			redirectToKeys(w, r, "key not found")
			return
		}
		if key.OwnerUserID != token.Subject {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if delete {
			err = s.keyRepository.Delete(r.Context(), key.ID)
			if err != nil {
				s.logger.Error("failed to delete key", "error", err, "keyId", key.ID)
				errMsg = "Failed to delete"
			}
		}
	}
	redirectToKeys(w, r, errMsg)
}
