package tui

import (
	"fmt"
	"strings"

	"github.com/vkozyrev/cinescope/internal/domain"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cinescope"))
	b.WriteString("  ")
	b.WriteString(m.identityLine())
	b.WriteString("\n\n")

	switch m.view {
	case viewHome:
		b.WriteString(m.homeView())
	case viewGenres:
		b.WriteString(m.genresView())
	case viewListing:
		b.WriteString(m.listingView())
	case viewSearch:
		b.WriteString(m.searchView())
	case viewDetail:
		b.WriteString(m.detailView())
	case viewFavorites:
		b.WriteString(m.favoritesView())
	case viewLogin:
		b.WriteString(m.loginView())
	case viewRegister:
		b.WriteString(m.registerView())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) identityLine() string {
	if user := m.identity.User(); user != nil {
		return dimStyle.Render("signed in as " + user.DisplayName())
	}
	if msg := m.identity.Error(); msg != "" {
		return errorStyle.Render(msg)
	}
	return dimStyle.Render("not signed in")
}

func (m *Model) homeView() string {
	var b strings.Builder

	b.WriteString(m.heroView())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Top 10"))
	b.WriteString("\n")

	switch {
	case m.catalog.Status() == domain.StatusLoading && len(m.catalog.Top10()) == 0:
		b.WriteString(m.spinner.View() + " loading...")
	case m.catalog.Status() == domain.StatusFailed && len(m.catalog.Top10()) == 0:
		b.WriteString(errorStyle.Render("could not load the top 10"))
	default:
		b.WriteString(m.movieList(m.catalog.Top10()))
	}
	return b.String()
}

func (m *Model) heroView() string {
	if m.catalog.RandomStatus() == domain.StatusLoading || m.randomInFlight {
		return heroStyle.Render(m.spinner.View() + " picking a movie...")
	}
	movie := m.catalog.RandomMovie()
	if movie == nil {
		return heroStyle.Render(dimStyle.Render("no random pick available"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", selectedStyle.Render(movie.Title), movie.ReleaseYear)
	fmt.Fprintf(&b, "%s  %s  %s\n",
		ratingStyle.Render(fmt.Sprintf("★ %.1f", movie.DisplayRating())),
		movie.FormattedRuntime(),
		dimStyle.Render(strings.Join(movie.Genres, ", ")))
	if movie.Plot != "" {
		b.WriteString(truncate(movie.Plot, 200))
		b.WriteString("\n")
	}
	if movie.TrailerURL != "" {
		b.WriteString(dimStyle.Render("trailer: " + movie.TrailerURL))
	}
	return heroStyle.Render(b.String())
}

func (m *Model) genresView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Genres"))
	b.WriteString("\n")
	for i, genre := range genres {
		line := "  " + genre
		if i == m.cursor {
			line = selectedStyle.Render("> " + genre)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *Model) listingView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.catalog.CurrentGenre()))
	b.WriteString("\n")

	if m.catalog.Status() == domain.StatusLoading {
		b.WriteString(m.spinner.View() + " loading...")
		return b.String()
	}

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(m.filterInput.View() + "\n\n")
	}

	movies := m.visibleMovies()
	if len(movies) == 0 {
		b.WriteString(dimStyle.Render("nothing here"))
		return b.String()
	}
	b.WriteString(m.movieList(movies))

	if m.filterInput.Value() == "" && m.catalog.HasMore() {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("showing %d of %d, press m for more",
			m.catalog.DisplayedCount(), len(m.catalog.FilteredMovies()))))
	}
	return b.String()
}

func (m *Model) searchView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if m.catalog.SearchStatus() == domain.StatusLoading {
		b.WriteString(m.spinner.View() + " searching...\n\n")
	}

	movies := m.visibleMovies()
	if len(movies) == 0 {
		if m.searchInput.Value() != "" && m.catalog.SearchStatus() == domain.StatusIdle {
			b.WriteString(dimStyle.Render("no matches"))
		}
		return b.String()
	}
	b.WriteString(m.movieList(movies))
	return b.String()
}

func (m *Model) detailView() string {
	if m.catalog.Status() == domain.StatusLoading {
		return m.spinner.View() + " loading..."
	}
	movie := m.catalog.CurrentMovie()
	if movie == nil {
		return errorStyle.Render("movie not found")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(movie.Title))
	b.WriteString("\n")
	if movie.OriginalTitle != "" && movie.OriginalTitle != movie.Title {
		b.WriteString(dimStyle.Render(movie.OriginalTitle) + "\n")
	}
	fmt.Fprintf(&b, "%s  %d  %s\n\n",
		ratingStyle.Render(fmt.Sprintf("★ %.1f", movie.DisplayRating())),
		movie.ReleaseYear,
		movie.FormattedRuntime())

	if len(movie.Genres) > 0 {
		fmt.Fprintf(&b, "Genres:    %s\n", strings.Join(movie.Genres, ", "))
	}
	if movie.Director != "" {
		fmt.Fprintf(&b, "Director:  %s\n", movie.Director)
	}
	if movie.Language != "" {
		fmt.Fprintf(&b, "Language:  %s\n", movie.Language)
	}
	if movie.Budget != "" {
		fmt.Fprintf(&b, "Budget:    %s\n", movie.Budget)
	}
	if movie.Revenue != "" {
		fmt.Fprintf(&b, "Revenue:   %s\n", movie.Revenue)
	}
	if movie.Plot != "" {
		b.WriteString("\n" + movie.Plot + "\n")
	}
	if movie.TrailerURL != "" {
		b.WriteString("\n" + dimStyle.Render("trailer: "+movie.TrailerURL) + "\n")
	}
	return b.String()
}

func (m *Model) favoritesView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Favorites"))
	b.WriteString("\n")

	if !m.identity.IsAuthenticated() {
		b.WriteString(dimStyle.Render("sign in to keep favorites, press l"))
		return b.String()
	}

	if m.filtering || m.filterInput.Value() != "" {
		b.WriteString(m.filterInput.View() + "\n\n")
	}

	movies := m.visibleMovies()
	if len(movies) == 0 {
		b.WriteString(dimStyle.Render("no favorites yet, press a on any movie"))
		return b.String()
	}
	b.WriteString(m.movieList(movies))
	return b.String()
}

func (m *Model) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n")
	for i := range m.loginInputs {
		b.WriteString(m.loginInputs[i].View() + "\n")
	}
	if m.identity.Status() == domain.StatusLoading {
		b.WriteString("\n" + m.spinner.View() + " signing in...")
	}
	return b.String()
}

func (m *Model) registerView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create account"))
	b.WriteString("\n")
	for i := range m.regInputs {
		b.WriteString(m.regInputs[i].View() + "\n")
	}
	if m.identity.Status() == domain.StatusLoading {
		b.WriteString("\n" + m.spinner.View() + " registering...")
	}
	return b.String()
}

func (m *Model) movieList(movies []domain.Movie) string {
	var b strings.Builder
	for i, movie := range movies {
		marker := "  "
		title := movie.Title
		if i == m.cursor {
			marker = selectedStyle.Render("> ")
			title = selectedStyle.Render(title)
		}
		year := ""
		if movie.ReleaseYear > 0 {
			year = dimStyle.Render(fmt.Sprintf(" (%d)", movie.ReleaseYear))
		}
		fav := ""
		if m.isFavorite(movie.ID) {
			fav = ratingStyle.Render(" ♥")
		}
		fmt.Fprintf(&b, "%s%s%s%s\n", marker, title, year, fav)
	}
	return b.String()
}

func (m *Model) isFavorite(id int) bool {
	for _, movie := range m.identity.FavoriteMovies() {
		if movie.ID == id {
			return true
		}
	}
	return false
}

func (m *Model) helpLine() string {
	switch m.view {
	case viewSearch:
		return "type to search • ↑/↓ select • enter open • esc back"
	case viewLogin, viewRegister:
		return "tab next field • enter submit • esc back"
	case viewDetail:
		return "a favorite • x unfavorite • h home • g genres • s search • f favorites • q quit"
	case viewListing:
		return "↑/↓ move • enter open • m more • / filter • a favorite • h home • q quit"
	default:
		return "↑/↓ move • enter open • g genres • s search • f favorites • r reroll • l sign in/out • n sign up • q quit"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
