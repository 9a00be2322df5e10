package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/cinescope/internal/domain"
	"github.com/vkozyrev/cinescope/internal/gateway"
)

// fakeAuthGateway is a scriptable AuthGateway with call counters.
type fakeAuthGateway struct {
	login      func(ctx context.Context, data domain.LoginData) (*domain.User, error)
	register   func(ctx context.Context, data domain.RegisterData) (*domain.User, error)
	getProfile func(ctx context.Context) (*domain.User, error)
	logout     func(ctx context.Context) error

	loginCalls    int
	registerCalls int
	profileCalls  int
	logoutCalls   int
}

func (f *fakeAuthGateway) Login(ctx context.Context, data domain.LoginData) (*domain.User, error) {
	f.loginCalls++
	if f.login == nil {
		return nil, nil
	}
	return f.login(ctx, data)
}

func (f *fakeAuthGateway) Register(ctx context.Context, data domain.RegisterData) (*domain.User, error) {
	f.registerCalls++
	if f.register == nil {
		return nil, nil
	}
	return f.register(ctx, data)
}

func (f *fakeAuthGateway) GetProfile(ctx context.Context) (*domain.User, error) {
	f.profileCalls++
	if f.getProfile == nil {
		return nil, nil
	}
	return f.getProfile(ctx)
}

func (f *fakeAuthGateway) Logout(ctx context.Context) error {
	f.logoutCalls++
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

// memStore is an in-memory FavoritesStore.
type memStore struct {
	mu        sync.Mutex
	favorites map[string][]domain.Movie
	saveErr   error
	saves     int
}

func newMemStore() *memStore {
	return &memStore{favorites: make(map[string][]domain.Movie)}
}

func (m *memStore) Favorites(email string) ([]domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favorites[email], nil
}

func (m *memStore) SaveFavorites(email string, movies []domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.favorites[email] = movies
	return nil
}

func newTestService(gw domain.AuthGateway, store FavoritesStore) *Service {
	return NewService(gw, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoginSuccessLoadsStoredFavorites(t *testing.T) {
	store := newMemStore()
	store.favorites["ann@example.com"] = []domain.Movie{{ID: 42, Title: "Alien"}}

	gw := &fakeAuthGateway{
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email, Name: "Ann"}, nil
		},
	}
	svc := newTestService(gw, store)

	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "secret"})

	require.True(t, svc.IsAuthenticated())
	assert.Equal(t, "ann@example.com", svc.User().Email)
	assert.Equal(t, "secret", svc.User().Password)
	require.Len(t, svc.FavoriteMovies(), 1)
	assert.Equal(t, 42, svc.FavoriteMovies()[0].ID)
	assert.Equal(t, domain.StatusIdle, svc.Status())
	assert.Empty(t, svc.Error())
}

func TestLoginFallsBackToProfile(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(context.Context, domain.LoginData) (*domain.User, error) {
			return nil, nil // server acknowledged without a body
		},
		getProfile: func(context.Context) (*domain.User, error) {
			return &domain.User{Email: "ann@example.com"}, nil
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "secret"})

	require.True(t, svc.IsAuthenticated())
	assert.Equal(t, 1, gw.profileCalls)
	assert.Equal(t, "secret", svc.User().Password)
}

func TestLoginInvalidCredentials(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(context.Context, domain.LoginData) (*domain.User, error) {
			return nil, &gateway.APIError{StatusCode: 401, Message: "Unauthorized"}
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "wrong"})

	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())
	assert.Equal(t, domain.StatusFailed, svc.Status())
	assert.Equal(t, "invalid email or password", svc.Error())
}

func TestLoginServerMessagePreferred(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(context.Context, domain.LoginData) (*domain.User, error) {
			return nil, &gateway.APIError{StatusCode: 422, Message: "email is malformed"}
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Login(context.Background(), domain.LoginData{Email: "nope", Password: "x"})

	assert.Equal(t, "email is malformed", svc.Error())
}

func TestLoginGenericFallbackMessage(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(context.Context, domain.LoginData) (*domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})

	assert.Equal(t, "login failed", svc.Error())
}

func TestRegisterPasswordMismatchFailsLocally(t *testing.T) {
	gw := &fakeAuthGateway{}
	svc := newTestService(gw, newMemStore())

	svc.Register(context.Background(), domain.RegisterData{
		Email:           "ann@example.com",
		Password:        "one",
		ConfirmPassword: "two",
	})

	assert.Equal(t, 0, gw.registerCalls, "mismatch must not reach the network")
	assert.Equal(t, domain.StatusFailed, svc.Status())
	assert.Equal(t, "passwords do not match", svc.Error())
}

func TestRegisterAutoLoginChain(t *testing.T) {
	gw := &fakeAuthGateway{
		register: func(context.Context, domain.RegisterData) (*domain.User, error) {
			return nil, nil // created, no body
		},
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email}, nil
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Register(context.Background(), domain.RegisterData{
		Email:           "ann@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
		Name:            "Ann",
	})

	require.True(t, svc.IsAuthenticated())
	assert.Equal(t, 1, gw.loginCalls)
	assert.Equal(t, "ann@example.com", svc.User().Email)
	assert.Equal(t, "secret", svc.User().Password)
}

func TestRegisterSynthesizesIdentityWhenEverythingElseFails(t *testing.T) {
	gw := &fakeAuthGateway{
		register: func(context.Context, domain.RegisterData) (*domain.User, error) {
			return nil, nil
		},
		login: func(context.Context, domain.LoginData) (*domain.User, error) {
			return nil, errors.New("flaky")
		},
		getProfile: func(context.Context) (*domain.User, error) {
			return nil, errors.New("flaky")
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Register(context.Background(), domain.RegisterData{
		Email:           "ann@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
		Name:            "Ann",
		Surname:         "Lee",
	})

	require.True(t, svc.IsAuthenticated())
	user := svc.User()
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "Lee", user.Surname)
}

func TestRegisterServerError(t *testing.T) {
	gw := &fakeAuthGateway{
		register: func(context.Context, domain.RegisterData) (*domain.User, error) {
			return nil, &gateway.APIError{StatusCode: 409, Message: "email already taken"}
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Register(context.Background(), domain.RegisterData{
		Email:           "ann@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})

	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, "email already taken", svc.Error())
}

func TestCheckAuthRestoresSession(t *testing.T) {
	store := newMemStore()
	store.favorites["ann@example.com"] = []domain.Movie{{ID: 7}}
	gw := &fakeAuthGateway{
		getProfile: func(context.Context) (*domain.User, error) {
			return &domain.User{Email: "ann@example.com"}, nil
		},
	}
	svc := newTestService(gw, store)

	svc.CheckAuth(context.Background())

	require.True(t, svc.IsAuthenticated())
	assert.Len(t, svc.FavoriteMovies(), 1)
}

func TestCheckAuthUnauthorizedIsSilent(t *testing.T) {
	gw := &fakeAuthGateway{
		getProfile: func(context.Context) (*domain.User, error) {
			return nil, &gateway.APIError{StatusCode: 401}
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.CheckAuth(context.Background())

	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, domain.StatusIdle, svc.Status(), "a missing session is not a failure")
	assert.Empty(t, svc.Error())
}

func TestCheckAuthPreservesKnownPassword(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email}, nil
		},
		getProfile: func(context.Context) (*domain.User, error) {
			return &domain.User{Email: "ann@example.com"}, nil // no password field
		},
	}
	svc := newTestService(gw, newMemStore())

	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "secret"})
	svc.CheckAuth(context.Background())

	assert.Equal(t, "secret", svc.User().Password)
}

func TestLogoutClearsStateEvenOnServerError(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email}, nil
		},
		logout: func(context.Context) error {
			return errors.New("network down")
		},
	}
	svc := newTestService(gw, newMemStore())
	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})
	svc.AddToFavorite(domain.Movie{ID: 1})

	svc.Logout(context.Background())

	assert.False(t, svc.IsAuthenticated())
	assert.Nil(t, svc.User())
	assert.Empty(t, svc.FavoriteMovies())
}

func TestAddToFavoriteIsIdempotent(t *testing.T) {
	store := newMemStore()
	gw := &fakeAuthGateway{
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email}, nil
		},
	}
	svc := newTestService(gw, store)
	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})

	svc.AddToFavorite(domain.Movie{ID: 1, Title: "Alien"})
	svc.AddToFavorite(domain.Movie{ID: 1, Title: "Alien"})
	svc.AddToFavorite(domain.Movie{ID: 2, Title: "Heat"})

	assert.Len(t, svc.FavoriteMovies(), 2)
	assert.Len(t, store.favorites["ann@example.com"], 2)
	assert.Equal(t, 2, store.saves, "duplicate add must not rewrite the store")
}

func TestAddToFavoriteWithoutIdentityIsNoop(t *testing.T) {
	store := newMemStore()
	svc := newTestService(&fakeAuthGateway{}, store)

	svc.AddToFavorite(domain.Movie{ID: 1})

	assert.Empty(t, svc.FavoriteMovies())
	assert.Equal(t, 0, store.saves)
}

func TestRemoveFromFavorite(t *testing.T) {
	store := newMemStore()
	gw := &fakeAuthGateway{
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email}, nil
		},
	}
	svc := newTestService(gw, store)
	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})
	svc.AddToFavorite(domain.Movie{ID: 1})
	svc.AddToFavorite(domain.Movie{ID: 2})

	svc.RemoveFromFavorite(1)

	favorites := svc.FavoriteMovies()
	require.Len(t, favorites, 1)
	assert.Equal(t, 2, favorites[0].ID)
	assert.Len(t, store.favorites["ann@example.com"], 1)
}

func TestRemoveFromFavoriteUnknownIDKeepsList(t *testing.T) {
	store := newMemStore()
	gw := &fakeAuthGateway{
		login: func(_ context.Context, data domain.LoginData) (*domain.User, error) {
			return &domain.User{Email: data.Email}, nil
		},
	}
	svc := newTestService(gw, store)
	svc.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})
	svc.AddToFavorite(domain.Movie{ID: 1})

	svc.RemoveFromFavorite(99)

	assert.Len(t, svc.FavoriteMovies(), 1)
}

func TestClearError(t *testing.T) {
	gw := &fakeAuthGateway{
		login: func(context.Context, domain.LoginData) (*domain.User, error) {
			return nil, &gateway.APIError{StatusCode: 401}
		},
	}
	svc := newTestService(gw, newMemStore())
	svc.Login(context.Background(), domain.LoginData{Email: "a@b.c", Password: "x"})
	require.NotEmpty(t, svc.Error())

	svc.ClearError()

	assert.Empty(t, svc.Error())
}
