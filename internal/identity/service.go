// Package identity owns the authentication state and the favorites list
// scoped to the authenticated identity.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vkozyrev/cinescope/internal/domain"
	"github.com/vkozyrev/cinescope/internal/gateway"
)

// User-facing failure messages. Transport errors never reach the caller
// directly; they are mapped to one of these or to a server-supplied message.
const (
	msgInvalidCredentials = "invalid email or password"
	msgUserNotFound       = "user not found"
	msgLoginFailed        = "login failed"
	msgRegisterFailed     = "registration failed"
	msgPasswordMismatch   = "passwords do not match"
)

// FavoritesStore persists per-identity favorites lists.
type FavoritesStore interface {
	Favorites(email string) ([]domain.Movie, error)
	SaveFavorites(email string, movies []domain.Movie) error
}

type state struct {
	User            *domain.User
	IsAuthenticated bool
	FavoriteMovies  []domain.Movie
	Status          domain.Status
	Error           string
}

// Service is the identity state machine. Like the catalog machine, its
// operations block until complete and surface failures through the status
// field plus a human-readable error message.
type Service struct {
	gateway domain.AuthGateway
	store   FavoritesStore
	logger  *slog.Logger

	mu    sync.Mutex
	state state
}

// NewService creates the identity state machine.
func NewService(gw domain.AuthGateway, store FavoritesStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gw, store: store, logger: logger}
}

// === Operations ===

// Login authenticates with the given credentials. The authoritative identity
// comes from the login response body or, if absent, a follow-up profile
// fetch. On success the identity's persisted favorites are loaded and the
// submitted password is attached for display. On failure the machine is left
// unauthenticated regardless of prior state.
func (s *Service) Login(ctx context.Context, data domain.LoginData) {
	s.beginAuth()

	user, err := s.gateway.Login(ctx, data)
	if err != nil {
		s.logger.Warn("login failed", "email", data.Email, "error", err)
		s.fail(mapAuthError(err, msgLoginFailed))
		return
	}

	if user == nil {
		user, err = s.gateway.GetProfile(ctx)
		if err != nil || user == nil {
			if err == nil {
				err = domain.ErrUserUnresolved
			}
			s.logger.Warn("login profile fallback failed", "email", data.Email, "error", err)
			s.fail(mapAuthError(err, msgLoginFailed))
			return
		}
	}

	user.Password = data.Password
	s.completeAuth(user)
	s.logger.Info("user logged in", "email", user.Email)
}

// Register creates an account. A password confirmation mismatch fails
// locally before any request is sent. When the registration response does not
// clearly return the matching identity, an automatic login and then a profile
// fetch are attempted, finally synthesizing a minimal identity from the form;
// every successful path through this chain ends authenticated.
func (s *Service) Register(ctx context.Context, data domain.RegisterData) {
	if data.Password != data.ConfirmPassword {
		s.beginAuth()
		s.fail(msgPasswordMismatch)
		return
	}

	s.beginAuth()

	user, err := s.gateway.Register(ctx, data)
	if err != nil {
		s.logger.Warn("registration failed", "email", data.Email, "error", err)
		s.fail(mapAuthError(err, msgRegisterFailed))
		return
	}

	if user == nil || user.Email != data.Email {
		if authed, err := s.gateway.Login(ctx, domain.LoginData{Email: data.Email, Password: data.Password}); err == nil && authed != nil {
			user = authed
		} else if err != nil {
			s.logger.Warn("auto-login after registration failed", "email", data.Email, "error", err)
		}
	}

	if user == nil || user.Email != data.Email {
		if profile, err := s.gateway.GetProfile(ctx); err == nil && profile != nil && profile.Email == data.Email {
			user = profile
		} else if err != nil {
			s.logger.Warn("profile fetch after registration failed", "email", data.Email, "error", err)
		}
	}

	if user == nil {
		user = &domain.User{Email: data.Email, Name: data.Name, Surname: data.Surname}
	}

	user.Password = data.Password
	s.completeAuth(user)
	s.logger.Info("user registered", "email", user.Email)
}

// CheckAuth restores the session from the current cookie. It never produces
// a failed status: a 401 means "not authenticated" and any other error also
// resolves silently to no identity. A known password is preserved when the
// restored email matches the one already held, since the profile endpoint
// never returns it.
func (s *Service) CheckAuth(ctx context.Context) {
	user, err := s.gateway.GetProfile(ctx)
	if err != nil || user == nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			s.logger.Debug("no active session")
		} else if err != nil {
			s.logger.Error("session check failed", "error", err)
		}

		s.mu.Lock()
		s.state.User = nil
		s.state.IsAuthenticated = false
		s.state.FavoriteMovies = nil
		s.state.Status = domain.StatusIdle
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if s.state.User != nil && s.state.User.Email == user.Email {
		user.Password = s.state.User.Password
	}
	s.mu.Unlock()

	s.completeAuth(user)
	s.logger.Info("session restored", "email", user.Email)
}

// Logout invalidates the server-side session on a best-effort basis and
// unconditionally clears local identity state.
func (s *Service) Logout(ctx context.Context) {
	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed", "error", err)
	}

	s.mu.Lock()
	s.state = state{}
	s.mu.Unlock()
	s.logger.Info("user logged out")
}

// AddToFavorite adds a movie to the current identity's favorites. A no-op
// without an identity or when the movie is already present; otherwise the
// full updated list is persisted synchronously.
func (s *Service) AddToFavorite(movie domain.Movie) {
	s.mu.Lock()
	if s.state.User == nil || s.state.User.Email == "" {
		s.mu.Unlock()
		return
	}
	for _, f := range s.state.FavoriteMovies {
		if f.ID == movie.ID {
			s.mu.Unlock()
			return
		}
	}
	s.state.FavoriteMovies = append(s.state.FavoriteMovies, movie)
	email := s.state.User.Email
	favorites := cloneMovies(s.state.FavoriteMovies)
	s.mu.Unlock()

	s.persistFavorites(email, favorites)
}

// RemoveFromFavorite removes a movie by identifier. Removing an id that is
// not favorited leaves the list unchanged aside from a redundant identical
// write.
func (s *Service) RemoveFromFavorite(id int) {
	s.mu.Lock()
	if s.state.User == nil || s.state.User.Email == "" {
		s.mu.Unlock()
		return
	}
	kept := s.state.FavoriteMovies[:0:0]
	for _, f := range s.state.FavoriteMovies {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.state.FavoriteMovies = kept
	email := s.state.User.Email
	favorites := cloneMovies(kept)
	s.mu.Unlock()

	s.persistFavorites(email, favorites)
}

// ClearError discards the last failure message.
func (s *Service) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// === Selectors ===

// User returns the authenticated identity, or nil.
func (s *Service) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == nil {
		return nil
	}
	copied := *s.state.User
	return &copied
}

// IsAuthenticated reports whether an identity is present.
func (s *Service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// FavoriteMovies returns the current favorites list in insertion order.
func (s *Service) FavoriteMovies() []domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMovies(s.state.FavoriteMovies)
}

// Status returns the authentication slice status.
func (s *Service) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

// Error returns the last user-facing failure message, or "".
func (s *Service) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Error
}

// === Internals ===

func (s *Service) beginAuth() {
	s.mu.Lock()
	s.state.Status = domain.StatusLoading
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Service) completeAuth(user *domain.User) {
	favorites := s.loadFavorites(user.Email)

	s.mu.Lock()
	s.state.User = user
	s.state.IsAuthenticated = true
	s.state.FavoriteMovies = favorites
	s.state.Status = domain.StatusIdle
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Service) fail(message string) {
	s.mu.Lock()
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.Status = domain.StatusFailed
	s.state.Error = message
	s.mu.Unlock()
}

func (s *Service) loadFavorites(email string) []domain.Movie {
	if s.store == nil || email == "" {
		return nil
	}
	favorites, err := s.store.Favorites(email)
	if err != nil {
		s.logger.Error("failed to load favorites", "email", email, "error", err)
		return nil
	}
	return favorites
}

func (s *Service) persistFavorites(email string, favorites []domain.Movie) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveFavorites(email, favorites); err != nil {
		s.logger.Error("failed to save favorites", "email", email, "error", err)
	}
}

// mapAuthError converts a transport failure into a user-facing message:
// 401 and 404 have fixed texts, then any server-supplied message, then the
// operation's generic fallback.
func mapAuthError(err error, fallback string) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401:
			return msgInvalidCredentials
		case 404:
			return msgUserNotFound
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}

func cloneMovies(movies []domain.Movie) []domain.Movie {
	if movies == nil {
		return nil
	}
	out := make([]domain.Movie, len(movies))
	copy(out, movies)
	return out
}
