package session

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

const LoginPath = "/login"

// GuestProvisioner creates a guest and a token for it atomically.
type GuestProvisioner interface {
	ProvisionGuest(ctx context.Context, issue func(userID string) (string, error)) (*models.User, string, error)
}

type ctxKey struct{}

// WithUserID stores the resolved identity on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFrom returns the identity resolved by one of the middlewares.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Resolver maps request cookies to user ids. Pages get a guest when no token
// is present; API routes reject the request instead.
type Resolver struct {
	tokens *TokenIssuer
	guests GuestProvisioner
	secure bool
	logger *zap.Logger
}

func NewResolver(tokens *TokenIssuer, guests GuestProvisioner, secure bool, logger *zap.Logger) *Resolver {
	return &Resolver{tokens: tokens, guests: guests, secure: secure, logger: logger}
}

// Identify verifies the request's token without side effects.
func (s *Resolver) Identify(r *http.Request) (string, error) {
	return s.tokens.Verify(tokenFromRequest(r))
}

// StartSession issues a token for userID and sets the cookie.
func (s *Resolver) StartSession(w http.ResponseWriter, userID string) error {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return err
	}
	setCookie(w, token, s.tokens.TTL(), s.secure)
	return nil
}

// EndSession clears the cookie.
func (s *Resolver) EndSession(w http.ResponseWriter) {
	clearCookie(w, s.secure)
}

// ProvisionGuest creates a guest and sets its cookie on w.
func (s *Resolver) ProvisionGuest(ctx context.Context, w http.ResponseWriter) (*models.User, error) {
	guest, token, err := s.guests.ProvisionGuest(ctx, s.tokens.Issue)
	if err != nil {
		return nil, err
	}
	setCookie(w, token, s.tokens.TTL(), s.secure)
	return guest, nil
}

// RequirePageUser resolves page requests. A missing token provisions a guest;
// an invalid or expired one clears the cookie and redirects to the login page.
func (s *Resolver) RequirePageUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Identify(r)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoToken):
			guest, gerr := s.ProvisionGuest(r.Context(), w)
			if gerr != nil {
				s.logger.Error("failed to provision guest", zap.Error(gerr))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			userID = guest.ID
		default:
			s.EndSession(w)
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// RequireUser rejects requests without a valid token.
func (s *Resolver) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Identify(r)
		if err != nil {
			utils.JSONError(w, http.StatusUnauthorized, "Not logged in")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// OptionalUser attaches the identity when the token verifies and otherwise
// passes the request through untouched.
func (s *Resolver) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, err := s.Identify(r); err == nil {
			r = r.WithContext(WithUserID(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
