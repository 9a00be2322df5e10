package domain

import "context"

// MovieQuery holds the list-endpoint parameters. Zero-valued fields are
// omitted from the request.
type MovieQuery struct {
	Page         int
	Limit        int
	SortField    string
	SortType     int
	SelectFields string
	Genre        string
}

// CatalogGateway provides access to the movie catalog endpoints.
type CatalogGateway interface {
	// GetMovies returns one page of the catalog listing
	GetMovies(ctx context.Context, q MovieQuery) ([]Movie, error)

	// GetMovieByID returns a single movie by identifier
	GetMovieByID(ctx context.Context, id int) (*Movie, error)

	// GetRandomMovie returns a server-picked random movie.
	// The endpoint is optional upstream and may answer 404.
	GetRandomMovie(ctx context.Context) (*Movie, error)
}

// AuthGateway provides access to the authentication endpoints.
type AuthGateway interface {
	// Login posts credentials. A nil user with a nil error means the server
	// accepted the credentials but returned no identity in the body; callers
	// fall back to GetProfile.
	Login(ctx context.Context, data LoginData) (*User, error)

	// Register creates an account, with the same body-resolution rules as Login
	Register(ctx context.Context, data RegisterData) (*User, error)

	// GetProfile returns the identity bound to the current session cookie
	GetProfile(ctx context.Context) (*User, error)

	// Logout invalidates the server-side session
	Logout(ctx context.Context) error
}

// TrailerLookup resolves a trailer reference for a movie that arrived without
// one. Implementations may consult any source; the catalog machine only backfills.
type TrailerLookup interface {
	Lookup(title, originalTitle string) (string, bool)
}
