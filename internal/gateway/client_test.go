package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/cinescope/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, nil)
}

func TestGetMoviesBuildsQuery(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode([]domain.Movie{{ID: 1, Title: "Alien"}})
	})

	movies, err := client.GetMovies(context.Background(), domain.MovieQuery{
		Page:         3,
		Limit:        50,
		SortField:    "_id",
		SortType:     1,
		SelectFields: "id title",
		Genre:        "drama",
	})

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "3", got.Get("page"))
	assert.Equal(t, "50", got.Get("limit"))
	assert.Equal(t, "_id", got.Get("sortField"))
	assert.Equal(t, "1", got.Get("sortType"))
	assert.Equal(t, "id title", got.Get("selectFields"))
	assert.Equal(t, "drama", got.Get("genres"))
}

func TestGetMoviesOmitsEmptyParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte("[]"))
	})

	_, err := client.GetMovies(context.Background(), domain.MovieQuery{})
	require.NoError(t, err)
}

func TestGetMoviesDocsWrapper(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"docs":[{"id":1,"title":"Alien"},{"id":2,"title":"Heat"}],"total":2}`))
	})

	movies, err := client.GetMovies(context.Background(), domain.MovieQuery{})

	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Heat", movies[1].Title)
}

func TestGetMoviesBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Alien"}]`))
	})

	movies, err := client.GetMovies(context.Background(), domain.MovieQuery{})

	require.NoError(t, err)
	require.Len(t, movies, 1)
}

func TestGetMoviesServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database exploded"}`))
	})

	_, err := client.GetMovies(context.Background(), domain.MovieQuery{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "database exploded", apiErr.Message)
}

func TestGetMovieByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/42", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Movie{ID: 42, Title: "Alien"})
	})

	movie, err := client.GetMovieByID(context.Background(), 42)

	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, 42, movie.ID)
}

func TestGetMovieByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetMovieByID(context.Background(), 99)

	assert.True(t, errors.Is(err, domain.ErrMovieNotFound))
}

func TestGetMovieByIDEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	})

	movie, err := client.GetMovieByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestGetRandomMovie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/random", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Movie{ID: 7, Title: "Heat"})
	})

	movie, err := client.GetRandomMovie(context.Background())

	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, 7, movie.ID)
}

func TestLoginResolvesWrappedUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body domain.LoginData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body.Email)
		w.Write([]byte(`{"user":{"email":"ann@example.com","name":"Ann"}}`))
	})

	user, err := client.Login(context.Background(), domain.LoginData{
		Email:    "ann@example.com",
		Password: "secret",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ann", user.Name)
}

func TestLoginResolvesBareUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"ann@example.com"}`))
	})

	user, err := client.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ann@example.com", user.Email)
}

func TestLoginOpaqueBodyYieldsNilUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":true}`))
	})

	user, err := client.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})

	require.NoError(t, err)
	assert.Nil(t, user, "caller falls back to the profile endpoint")
}

func TestLoginUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`"Wrong password"`))
	})

	_, err := client.Login(context.Background(), domain.LoginData{Email: "a@b.c", Password: "x"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Wrong password", apiErr.Message)
}

func TestRegisterSendsBothConfirmSpellings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "secret", body["confirmPassword"])
		assert.Equal(t, "secret", body["passwordConfirm"])
		w.Write([]byte(`{"success":true}`))
	})

	user, err := client.Register(context.Background(), domain.RegisterData{
		Email:           "ann@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile", r.URL.Path)
		w.Write([]byte(`{"email":"ann@example.com","name":"Ann","surname":"Lee"}`))
	})

	user, err := client.GetProfile(context.Background())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ann Lee", user.DisplayName())
}

func TestSessionCookiePersistsAcrossRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
			w.Write([]byte(`{"email":"ann@example.com"}`))
		case "/profile":
			cookie, err := r.Cookie("session")
			require.NoError(t, err)
			assert.Equal(t, "abc123", cookie.Value)
			w.Write([]byte(`{"email":"ann@example.com"}`))
		}
	})

	_, err := client.Login(context.Background(), domain.LoginData{Email: "ann@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = client.GetProfile(context.Background())
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"result":true}`))
	})

	assert.NoError(t, client.Logout(context.Background()))
}

func TestExtractMessageShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json string", `"Not allowed"`, "Not allowed"},
		{"message field", `{"message":"bad input"}`, "bad input"},
		{"error field", `{"error":"oops"}`, "oops"},
		{"errors array", `{"errors":[{"message":"first"},{"message":"second"}]}`, "first"},
		{"raw text", `upstream timeout`, "upstream timeout"},
		{"opaque object", `{"code":7}`, "500 Internal Server Error"},
		{"empty body", ``, "500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractMessage([]byte(tt.body), "500 Internal Server Error")
			assert.Equal(t, tt.want, got)
		})
	}
}
