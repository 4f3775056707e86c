package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

var idTokenCookieKey = "ID_TOKEN"
var refreshTokenCookieKey = "REFRESH_TOKEN"

var (
	IdTokenCtxKey      = &contextKey{"IdToken"}
	RefreshTokenCtxKey = &contextKey{"RefreshToken"}
	ErrorCtxKey        = &contextKey{"Error"}
	ApiKeyCtxKey       = &contextKey{"ApiKey"}
)

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   idTokenCookieKey,
		Value:  "",
		MaxAge: -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:   refreshTokenCookieKey,
		Value:  "",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		http.Redirect(w, r, "/login?error=bad request", http.StatusSeeOther)
		return
	}

	resp, err := s.authClient.SignInWithEmailAndPassword(r.Context(), email, password)
	if err != nil {
		s.logger.Error("failed to login", "error", err)
		http.Redirect(w, r, "/login?error=internal error", http.StatusSeeOther)
		return
	}
	if resp.Error != nil {
		http.Redirect(w, r, fmt.Sprintf("/login?error=%v", resp.Error.Error()), http.StatusSeeOther)
		return
	}

	// 5 days
	cookieExpires := time.Now().Add(5 * 24 * time.Hour)

	http.SetCookie(w, &http.Cookie{
		Name:     idTokenCookieKey,
		Value:    resp.IdToken,
		Expires:  cookieExpires,
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookieKey,
		Value:    resp.RefreshToken,
		Expires:  cookieExpires,
		HttpOnly: true,
		Secure:   true,
	})
	http.Redirect(w, r, "/prompts", http.StatusSeeOther)
}

// verifySession validates the session cookies against firebase and returns
// the verified token plus the refresh token.
func (s *server) verifySession(r *http.Request) (*auth.Token, string, error) {
	idTokenCookie, ok := lo.Find(r.Cookies(), func(c *http.Cookie) bool { return c.Name == idTokenCookieKey })
	if !ok || len(idTokenCookie.Value) == 0 {
		return nil, "", fmt.Errorf("missing session cookie")
	}
	refreshTokenCookie, ok := lo.Find(r.Cookies(), func(c *http.Cookie) bool { return c.Name == refreshTokenCookieKey })
	if !ok || len(refreshTokenCookie.Value) == 0 {
		return nil, "", fmt.Errorf("missing refresh cookie")
	}

	ctx := r.Context()
	authApp, err := s.app.Auth(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get firebase auth: %w", err)
	}

	token, err := authApp.VerifyIDToken(ctx, idTokenCookie.Value)
	if err != nil {
		return nil, "", err
	}
	return token, refreshTokenCookie.Value, nil
}

// firebaseJwtVerifier guards html pages: unauthenticated requests are sent to
// the login page.
func (s *server) firebaseJwtVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, refreshToken, err := s.verifySession(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		ctx := NewContext(r.Context(), token, refreshToken, err)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// apiJwtVerifier guards the json endpoints used by the prompts page script.
func (s *server) apiJwtVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, refreshToken, err := s.verifySession(r)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := NewContext(r.Context(), token, refreshToken, err)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey struct {
	name string
}

func NewContext(ctx context.Context, t *auth.Token, refreshToken string, err error) context.Context {
	ctx = context.WithValue(ctx, IdTokenCtxKey, t)
	ctx = context.WithValue(ctx, RefreshTokenCtxKey, refreshToken)
	ctx = context.WithValue(ctx, ErrorCtxKey, err)
	return ctx
}

func TokenFromContext(ctx context.Context) (*auth.Token, string, error) {
	idToken, _ := ctx.Value(IdTokenCtxKey).(*auth.Token)
	refreshToken, _ := ctx.Value(RefreshTokenCtxKey).(string)
	var err error
	err, _ = ctx.Value(ErrorCtxKey).(error)
	return idToken, refreshToken, err
}

// apiKeyVerifier guards the programmatic endpoints. Credentials have the
// form "<key-id>.<secret>"; only a bcrypt hash of the secret is stored.
func (s *server) apiKeyVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorizationHeader := r.Header.Get("Authorization")
		authorizationHeader = strings.TrimPrefix(authorizationHeader, "Bearer ")
		if authorizationHeader == "" {
			jsonError(w, http.StatusUnauthorized, "missing api key")
			return
		}

		keyId, secret, ok := strings.Cut(authorizationHeader, ".")
		if !ok {
			jsonError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		ctx := r.Context()
		apiKey, err := s.keyRepository.GetByID(ctx, keyId)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Error("error getting api key from db", "error", err, "keyId", keyId)
			}
			jsonError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(apiKey.KeyHash), []byte(secret))
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "invalid api key")
			return
		}

		ctx = NewApiKeyContext(ctx, apiKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
func NewApiKeyContext(ctx context.Context, apiKey domain.ApiKey) context.Context {
	return context.WithValue(ctx, ApiKeyCtxKey, apiKey)
}

func ApiKeyFromContext(ctx context.Context) domain.ApiKey {
	apiKey, _ := ctx.Value(ApiKeyCtxKey).(domain.ApiKey)
	return apiKey
}
