package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/cardhaus/preorder-api/internal/domain/user"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Login verifies credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingCredentials):
			writeError(ctx, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrInvalidCredentials):
			writeError(ctx, w, http.StatusUnauthorized, err.Error())
		default:
			internalError(ctx, w, "Login", err)
		}
		return
	}

	if err := h.sessions.Issue(w, u); err != nil {
		internalError(ctx, w, "Issue session", err)
		return
	}

	zctx.From(ctx).Info("User logged in", zap.String("username", u.Username))
	writeJSON(ctx, w, http.StatusOK, userResponse{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
}

// Register creates a non-admin account and starts a session for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingCredentials):
			writeError(ctx, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrUsernameTaken):
			writeError(ctx, w, http.StatusBadRequest, err.Error())
		default:
			internalError(ctx, w, "Register", err)
		}
		return
	}

	if err := h.sessions.Issue(w, u); err != nil {
		internalError(ctx, w, "Issue session", err)
		return
	}

	zctx.From(ctx).Info("User registered", zap.String("username", u.Username))
	writeJSON(ctx, w, http.StatusCreated, userResponse{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
}

// Logout clears the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the identity attached to the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(ctx, w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(ctx, w, http.StatusOK, userResponse{ID: s.UserID, Username: s.Username, IsAdmin: s.IsAdmin})
}
