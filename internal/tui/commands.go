package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vkozyrev/cinescope/internal/domain"
)

// Messages emitted when a blocking core operation has completed. The model
// re-reads selectors on receipt; payloads stay in the services.
type (
	top10LoadedMsg    struct{}
	randomLoadedMsg   struct{}
	detailLoadedMsg   struct{ id int }
	genreLoadedMsg    struct{ genre string }
	searchFinishedMsg struct{ query string }
	authFinishedMsg   struct{}
	sessionCheckedMsg struct{}
	loggedOutMsg      struct{}
	searchSettledMsg  struct{ query string }
)

func (m *Model) fetchTop10Cmd() tea.Cmd {
	return func() tea.Msg {
		m.catalog.FetchTop10(context.Background())
		return top10LoadedMsg{}
	}
}

func (m *Model) fetchRandomCmd() tea.Cmd {
	return func() tea.Msg {
		m.catalog.FetchRandomMovie(context.Background())
		return randomLoadedMsg{}
	}
}

func (m *Model) fetchDetailCmd(id int) tea.Cmd {
	return func() tea.Msg {
		m.catalog.FetchMovieByID(context.Background(), id)
		return detailLoadedMsg{id: id}
	}
}

func (m *Model) fetchGenreCmd(genre string) tea.Cmd {
	return func() tea.Msg {
		m.catalog.FetchMoviesByFilter(context.Background(), genre)
		return genreLoadedMsg{genre: genre}
	}
}

func (m *Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		m.catalog.SearchMovies(context.Background(), query)
		return searchFinishedMsg{query: query}
	}
}

func (m *Model) loginCmd(data domain.LoginData) tea.Cmd {
	return func() tea.Msg {
		m.identity.Login(context.Background(), data)
		return authFinishedMsg{}
	}
}

func (m *Model) registerCmd(data domain.RegisterData) tea.Cmd {
	return func() tea.Msg {
		m.identity.Register(context.Background(), data)
		return authFinishedMsg{}
	}
}

func (m *Model) checkAuthCmd() tea.Cmd {
	return func() tea.Msg {
		m.identity.CheckAuth(context.Background())
		return sessionCheckedMsg{}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.identity.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// waitForQueryCmd blocks on the debouncer until the search input settles.
// Re-armed after every settled query.
func (m *Model) waitForQueryCmd() tea.Cmd {
	return func() tea.Msg {
		return searchSettledMsg{query: <-m.debouncer.C()}
	}
}
