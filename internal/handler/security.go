package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cardhaus/preorder-api/internal/domain/user"
)

const sessionCookie = "session"

// ErrNoSession is returned when a request carries no valid session cookie.
var ErrNoSession = errors.New("no valid session")

// Sessions issues and verifies the signed session cookie. The cookie value
// is an HMAC-SHA256 JWT carrying the user's id, username, and admin flag.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a Sessions helper signing with secret; tokens expire
// after ttl.
func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

type sessionClaims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Session is the authenticated identity attached to a request.
type Session struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// Issue signs a session token for u and sets it as an http-only cookie.
func (s *Sessions) Issue(w http.ResponseWriter, u *user.User) error {
	now := s.now()
	claims := sessionClaims{
		Username: u.Username,
		Admin:    u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return errors.Wrap(err, "sign session token")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest parses and verifies the session cookie. It returns
// ErrNoSession when the cookie is absent, expired, or fails verification.
func (s *Sessions) FromRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, ErrNoSession
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(c.Value, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrNoSession
	}

	return &Session{
		UserID:   id,
		Username: claims.Username,
		IsAdmin:  claims.Admin,
	}, nil
}

// RequireAdmin guards admin routes: 401 when no valid session is present,
// 403 when the session belongs to a non-admin.
func (s *Sessions) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.FromRequest(r)
		if err != nil {
			writeError(r.Context(), w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !sess.IsAdmin {
			writeError(r.Context(), w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
