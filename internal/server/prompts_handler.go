package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/server/html"
	"github.com/samber/lo"
)

type promptJson struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func mapPromptJson(p domain.Prompt) promptJson {
	return promptJson{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Content:     p.Content,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type promptInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

func (s *server) handleGetPrompts(w http.ResponseWriter, r *http.Request) {
	token, _, _ := TokenFromContext(r.Context())
	errMsg := ""
	prompts, err := s.promptRepository.GetByUserID(r.Context(), token.Subject)
	if err != nil {
		s.logger.Error("error getting prompts by user id", "error", err, "userId", token.Subject)
		errMsg = "Error getting prompts"
	}
	// json.Marshal escapes <, > and &, so the payload is safe inside a
	// script tag.
	promptsJson, err := json.Marshal(lo.Map(prompts, func(p domain.Prompt, _ int) promptJson { return mapPromptJson(p) }))
	if err != nil {
		s.logger.Error("error marshalling prompts", "error", err)
		errMsg = "Error getting prompts"
		promptsJson = []byte("[]")
	}
	params := html.PromptsParams{
		Title:       "My Prompts",
		Error:       errMsg,
		PromptsJSON: string(promptsJson),
	}
	html.PromptsPage(w, params)
}

func (s *server) handleApiCreatePrompt(w http.ResponseWriter, r *http.Request) {
	token, _, _ := TokenFromContext(r.Context())
	input := promptInput{}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	prompt := domain.Prompt{
		UserID:      token.Subject,
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
	}
	if err := prompt.ValidateFields(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.promptRepository.Create(r.Context(), &prompt)
	if err != nil {
		s.logger.Error("error creating prompt", "error", err, "userId", token.Subject)
		jsonError(w, http.StatusInternalServerError, "failed to save prompt")
		return
	}
	jsonResponse(w, http.StatusOK, mapPromptJson(prompt))
}

func (s *server) handleApiUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	token, _, _ := TokenFromContext(r.Context())
	promptId, err := strconv.ParseInt(chi.URLParam(r, "prompt-id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid prompt id")
		return
	}
	input := promptInput{}
	err = json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	prompt := domain.Prompt{
		ID:          promptId,
		UserID:      token.Subject,
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
	}
	if err := prompt.ValidateFields(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.promptRepository.Update(r.Context(), &prompt)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "prompt not found")
			return
		}
		s.logger.Error("error updating prompt", "error", err, "promptId", promptId, "userId", token.Subject)
		jsonError(w, http.StatusInternalServerError, "failed to save prompt")
		return
	}
	jsonResponse(w, http.StatusOK, mapPromptJson(prompt))
}

func (s *server) handleApiDeletePrompt(w http.ResponseWriter, r *http.Request) {
	token, _, _ := TokenFromContext(r.Context())
	promptId, err := strconv.ParseInt(chi.URLParam(r, "prompt-id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid prompt id")
		return
	}
	err = s.promptRepository.Delete(r.Context(), promptId, token.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "prompt not found")
			return
		}
		s.logger.Error("error deleting prompt", "error", err, "promptId", promptId, "userId", token.Subject)
		jsonError(w, http.StatusInternalServerError, "failed to delete prompt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApiListPrompts serves programmatic access via api key.
func (s *server) handleApiListPrompts(w http.ResponseWriter, r *http.Request) {
	apiKey := ApiKeyFromContext(r.Context())
	prompts, err := s.promptRepository.GetByUserID(r.Context(), apiKey.OwnerUserID)
	if err != nil {
		s.logger.Error("error getting prompts by user id", "error", err, "userId", apiKey.OwnerUserID)
		jsonError(w, http.StatusInternalServerError, "failed to get prompts")
		return
	}
	jsonResponse(w, http.StatusOK, lo.Map(prompts, func(p domain.Prompt, _ int) promptJson { return mapPromptJson(p) }))
}
