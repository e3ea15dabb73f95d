package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin = "admin"

	sessionContextKey = "session"
)

// Session is the authenticated caller.
type Session struct {
	UserID kernel.UUID
	Role   string
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// sessionClaims accepts the subject in sub, or in id as older tokens of the
// auth service carry it.
type sessionClaims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens issued by the auth service.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwtSecret")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Issue signs a session token. The auth service owns login; this is used by
// tooling and tests.
func (a *Authenticator) Issue(userID kernel.UUID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(raw string) (Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, err
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.UserID
	}
	userID, err := kernel.UUIDFromString(subject)
	if err != nil {
		return Session{}, fmt.Errorf("session subject: %w", err)
	}
	if err = userID.Validate(); err != nil {
		return Session{}, err
	}

	return Session{UserID: userID, Role: claims.Role}, nil
}

// RequireSession rejects requests without a valid bearer token with 401.
func (a *Authenticator) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			return fail(c, http.StatusUnauthorized, "Not authorized, no token")
		}

		session, err := a.parse(strings.TrimSpace(raw))
		if err != nil {
			return fail(c, http.StatusUnauthorized, "Not authorized, token failed")
		}

		c.Set(sessionContextKey, session)
		return next(c)
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := sessionFrom(c)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "Not authorized, no token")
		}
		if !session.IsAdmin() {
			return fail(c, http.StatusForbidden, "Not authorized as an admin")
		}
		return next(c)
	}
}

var errNoSession = errors.New("no session on request")

func sessionFrom(c echo.Context) (Session, error) {
	session, ok := c.Get(sessionContextKey).(Session)
	if !ok {
		return Session{}, errNoSession
	}
	return session, nil
}
