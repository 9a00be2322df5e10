// Package tui is the terminal presentation layer. It drives the catalog and
// identity machines exclusively through their operation surface and
// selectors; all list, cache, and authentication state lives in the services.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vkozyrev/cinescope/internal/catalog"
	"github.com/vkozyrev/cinescope/internal/debounce"
	"github.com/vkozyrev/cinescope/internal/domain"
	"github.com/vkozyrev/cinescope/internal/identity"
	"github.com/vkozyrev/cinescope/internal/suggest"
)

// view identifies the active screen
type view int

const (
	viewHome view = iota
	viewGenres
	viewListing
	viewSearch
	viewDetail
	viewFavorites
	viewLogin
	viewRegister
)

// Genre tags offered on the genres screen.
var genres = []string{
	"action", "drama", "comedy", "horror", "scifi", "thriller", "romance",
	"adventure", "crime", "family", "documentary", "music", "war", "western",
	"animation", "stand-up", "tv-movie", "fantasy", "mystery", "history",
}

// loginField indexes the login form inputs.
const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// regField indexes the registration form inputs.
const (
	regEmail = iota
	regPassword
	regConfirm
	regName
	regSurname
	regCount
)

// Model is the bubbletea application model.
type Model struct {
	catalog     *catalog.Service
	identity    *identity.Service
	suggestions *suggest.Index
	debouncer   *debounce.Debouncer[string]

	view    view
	cursor  int
	width   int
	height  int
	spinner spinner.Model

	searchInput textinput.Model
	filterInput textinput.Model
	filtering   bool

	loginInputs [fieldCount]textinput.Model
	loginField  int

	regInputs [regCount]textinput.Model
	regField  int

	randomInFlight bool
}

// New creates the application model.
func New(cat *catalog.Service, id *identity.Service, sug *suggest.Index, deb *debounce.Debouncer[string]) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "search movies"
	search.CharLimit = 80

	filter := textinput.New()
	filter.Placeholder = "filter"
	filter.CharLimit = 40

	var logins [fieldCount]textinput.Model
	logins[fieldEmail] = textinput.New()
	logins[fieldEmail].Placeholder = "email"
	logins[fieldPassword] = textinput.New()
	logins[fieldPassword].Placeholder = "password"
	logins[fieldPassword].EchoMode = textinput.EchoPassword

	var regs [regCount]textinput.Model
	for i, placeholder := range []string{"email", "password", "confirm password", "name", "surname"} {
		regs[i] = textinput.New()
		regs[i].Placeholder = placeholder
	}
	regs[regPassword].EchoMode = textinput.EchoPassword
	regs[regConfirm].EchoMode = textinput.EchoPassword

	return &Model{
		catalog:     cat,
		identity:    id,
		suggestions: sug,
		debouncer:   deb,
		spinner:     sp,
		searchInput: search,
		filterInput: filter,
		loginInputs: logins,
		regInputs:   regs,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.randomInFlight = true
	return tea.Batch(
		m.spinner.Tick,
		m.checkAuthCmd(),
		m.fetchTop10Cmd(),
		m.fetchRandomCmd(),
		m.waitForQueryCmd(),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case top10LoadedMsg:
		m.suggestions.Add(m.catalog.Top10())
		return m, nil

	case randomLoadedMsg:
		m.randomInFlight = false
		return m, nil

	case genreLoadedMsg:
		movies, _ := m.catalog.CachedGenre(msg.genre)
		m.suggestions.Add(movies)
		return m, nil

	case detailLoadedMsg, searchFinishedMsg, authFinishedMsg, sessionCheckedMsg, loggedOutMsg:
		return m, nil

	case searchSettledMsg:
		// The settled query fires the remote search; re-arm the listener.
		return m, tea.Batch(m.searchCmd(msg.query), m.waitForQueryCmd())
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry views consume most keys.
	switch m.view {
	case viewSearch:
		return m.handleSearchKey(msg)
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewRegister:
		return m.handleRegisterKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.cursor = 0
		}
		return m, nil

	case "h":
		m.switchView(viewHome)
		return m, nil

	case "g":
		m.switchView(viewGenres)
		return m, nil

	case "s":
		m.switchView(viewSearch)
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()

	case "f":
		m.switchView(viewFavorites)
		return m, nil

	case "l":
		if m.identity.IsAuthenticated() {
			return m, m.logoutCmd()
		}
		m.view = viewLogin
		m.loginField = fieldEmail
		return m, m.loginInputs[fieldEmail].Focus()

	case "n":
		if !m.identity.IsAuthenticated() {
			m.view = viewRegister
			m.regField = regEmail
			return m, m.regInputs[regEmail].Focus()
		}

	case "/":
		if m.view == viewListing || m.view == viewFavorites {
			m.filtering = true
			m.filterInput.SetValue("")
			return m, m.filterInput.Focus()
		}

	case "r":
		if m.view == viewHome && !m.randomInFlight {
			m.randomInFlight = true
			return m, m.fetchRandomCmd()
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil

	case "m":
		if m.view == viewListing && m.catalog.HasMore() {
			m.catalog.LoadMoreMovies()
		}
		return m, nil

	case "a":
		if movie, ok := m.selectedMovie(); ok {
			m.identity.AddToFavorite(movie)
		}
		return m, nil

	case "x":
		if movie, ok := m.selectedMovie(); ok {
			m.identity.RemoveFromFavorite(movie.ID)
			if m.cursor >= m.listLen() && m.cursor > 0 {
				m.cursor--
			}
		}
		return m, nil

	case "enter":
		return m.handleEnter()
	}

	return m, nil
}

func (m *Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewGenres:
		if m.cursor < len(genres) {
			genre := genres[m.cursor]
			m.switchView(viewListing)
			return m, m.fetchGenreCmd(genre)
		}
	default:
		if movie, ok := m.selectedMovie(); ok {
			m.view = viewDetail
			return m, m.fetchDetailCmd(movie.ID)
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewHome
		m.searchInput.Blur()
		m.debouncer.Stop()
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if movie, ok := m.selectedMovie(); ok {
			m.view = viewDetail
			m.searchInput.Blur()
			return m, m.fetchDetailCmd(movie.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor = 0
	// Every keystroke goes through the debouncer; only the settled value
	// becomes a network search.
	m.debouncer.Push(m.searchInput.Value())
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.cursor = 0
		return m, nil
	case "enter":
		// Keep the committed filter applied, return keys to navigation.
		m.filtering = false
		m.filterInput.Blur()
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewHome
		for i := range m.loginInputs {
			m.loginInputs[i].Blur()
		}
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.loginInputs[m.loginField].Blur()
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.loginField = (m.loginField + fieldCount - 1) % fieldCount
		} else {
			m.loginField = (m.loginField + 1) % fieldCount
		}
		return m, m.loginInputs[m.loginField].Focus()

	case "enter":
		data := domain.LoginData{
			Email:    strings.TrimSpace(m.loginInputs[fieldEmail].Value()),
			Password: m.loginInputs[fieldPassword].Value(),
		}
		m.view = viewHome
		for i := range m.loginInputs {
			m.loginInputs[i].Blur()
		}
		return m, m.loginCmd(data)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginField], cmd = m.loginInputs[m.loginField].Update(msg)
	return m, cmd
}

func (m *Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewHome
		for i := range m.regInputs {
			m.regInputs[i].Blur()
		}
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.regInputs[m.regField].Blur()
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.regField = (m.regField + regCount - 1) % regCount
		} else {
			m.regField = (m.regField + 1) % regCount
		}
		return m, m.regInputs[m.regField].Focus()

	case "enter":
		data := domain.RegisterData{
			Email:           strings.TrimSpace(m.regInputs[regEmail].Value()),
			Password:        m.regInputs[regPassword].Value(),
			ConfirmPassword: m.regInputs[regConfirm].Value(),
			Name:            strings.TrimSpace(m.regInputs[regName].Value()),
			Surname:         strings.TrimSpace(m.regInputs[regSurname].Value()),
		}
		m.view = viewHome
		for i := range m.regInputs {
			m.regInputs[i].Blur()
		}
		return m, m.registerCmd(data)
	}

	var cmd tea.Cmd
	m.regInputs[m.regField], cmd = m.regInputs[m.regField].Update(msg)
	return m, cmd
}

// switchView changes screens, resetting selection and any applied filter.
func (m *Model) switchView(v view) {
	m.view = v
	m.cursor = 0
	m.filtering = false
	m.filterInput.SetValue("")
	m.filterInput.Blur()
}

// visibleMovies returns the movie list the active view renders.
func (m *Model) visibleMovies() []domain.Movie {
	switch m.view {
	case viewHome:
		return m.catalog.Top10()
	case viewListing:
		movies := m.catalog.DisplayedMovies()
		if m.filterInput.Value() != "" {
			return newMovieIndex(movies).filter(m.filterInput.Value())
		}
		return movies
	case viewSearch:
		results := m.catalog.SearchResults()
		if len(results) == 0 && m.catalog.SearchStatus() == domain.StatusLoading {
			// Local suggestions bridge the gap while the remote search runs.
			return m.suggestions.Query(m.searchInput.Value(), 10)
		}
		return results
	case viewFavorites:
		favorites := m.identity.FavoriteMovies()
		if m.filterInput.Value() != "" {
			return newMovieIndex(favorites).filter(m.filterInput.Value())
		}
		return favorites
	}
	return nil
}

func (m *Model) listLen() int {
	if m.view == viewGenres {
		return len(genres)
	}
	return len(m.visibleMovies())
}

func (m *Model) selectedMovie() (domain.Movie, bool) {
	movies := m.visibleMovies()
	if m.cursor < 0 || m.cursor >= len(movies) {
		return domain.Movie{}, false
	}
	return movies[m.cursor], true
}
