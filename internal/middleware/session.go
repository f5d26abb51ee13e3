// Package middleware provides shared request processing. This file
// implements the session binding: an opaque token travels in the
// session_token cookie (or an Authorization bearer header), is hashed
// and resolved against the sessions table, and the bound user id is
// placed on the request context. No process-wide session state exists;
// everything downstream reads the binding from echo.Context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stylish/clothing-store/internal/repository"
	"github.com/stylish/clothing-store/internal/utils"
)

// SessionCookie is the cookie that carries the raw session token.
const SessionCookie = "session_token"

// Context keys populated by ResolveSession.
const (
	ctxUserID    = "user_id"
	ctxTokenHash = "session_hash"
)

// ResolveSession resolves the caller's session token, when one is
// present, and stores the bound user id in context. It never rejects a
// request: public read paths run with no binding, and RequireSession
// enforces authentication where it is required.
func ResolveSession(sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return next(c)
			}
			hash := utils.HashToken(raw)
			c.Set(ctxTokenHash, hash)
			if uid, err := sessions.Resolve(c.Request().Context(), hash); err == nil {
				c.Set(ctxUserID, uid)
			}
			return next(c)
		}
	}
}

// RequireSession rejects requests that carry no resolved session.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserID(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			return next(c)
		}
	}
}

// UserID returns the user id bound to the request's session, if any.
func UserID(c echo.Context) (uint64, bool) {
	uid, ok := c.Get(ctxUserID).(uint64)
	return uid, ok
}

// TokenHash returns the hash of the presented token even when it did
// not resolve to a live session; logout revokes by hash regardless.
func TokenHash(c echo.Context) (string, bool) {
	h, ok := c.Get(ctxTokenHash).(string)
	return h, ok && h != ""
}

// tokenFromRequest prefers the session cookie and falls back to a
// bearer header so non-browser clients can authenticate too.
func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
