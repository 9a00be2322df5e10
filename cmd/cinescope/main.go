package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vkozyrev/cinescope/internal/catalog"
	"github.com/vkozyrev/cinescope/internal/config"
	"github.com/vkozyrev/cinescope/internal/debounce"
	"github.com/vkozyrev/cinescope/internal/domain"
	"github.com/vkozyrev/cinescope/internal/gateway"
	"github.com/vkozyrev/cinescope/internal/identity"
	"github.com/vkozyrev/cinescope/internal/log"
	"github.com/vkozyrev/cinescope/internal/persist"
	"github.com/vkozyrev/cinescope/internal/store"
	"github.com/vkozyrev/cinescope/internal/suggest"
	"github.com/vkozyrev/cinescope/internal/trailer"
	"github.com/vkozyrev/cinescope/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verbose := flag.Bool("v", false, "enable debug logging")
	memOnly := flag.Bool("mem", false, "skip the on-disk cache")
	login := flag.Bool("login", false, "prompt for credentials before starting")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *verbose {
		cfg.Logging.Level = "DEBUG"
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting cinescope", "base_url", cfg.API.BaseURL)

	cacheDir := cfg.Cache.Dir
	if *memOnly {
		cacheDir = ""
	}
	st, err := store.New(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to open cache store: %w", err)
	}
	defer st.Close()

	client := gateway.New(cfg.API.BaseURL, cfg.API.Timeout, logger)

	// Seed the catalog machine from the previous session's snapshot, if any
	// survived the TTL.
	var opts []catalog.Option
	if snap, ok := st.LoadSnapshot(cfg.Cache.SnapshotTTL); ok {
		logger.Info("restored session snapshot",
			"genres", len(snap.GenreCache), "current", snap.CurrentGenre)
		opts = append(opts, catalog.WithSeed(snap.GenreCache, snap.CurrentGenre, snap.GenreDisplayedCount))
	}

	catalogSvc := catalog.NewService(client, trailer.DefaultTable(), logger, opts...)
	identitySvc := identity.NewService(client, st, logger)

	if *login {
		if err := runLoginFlow(identitySvc); err != nil {
			return err
		}
	}

	writer := persist.NewSnapshotWriter(catalogSvc, st, logger)
	catalogSvc.AddObserver(writer)

	debouncer := debounce.New[string](cfg.Search.Debounce)
	defer debouncer.Stop()

	model := tui.New(catalogSvc, identitySvc, suggest.NewIndex(), debouncer)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runLoginFlow signs in on the terminal before the TUI takes over the screen.
func runLoginFlow(svc *identity.Service) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	svc.Login(context.Background(), domain.LoginData{
		Email:    strings.TrimSpace(email),
		Password: string(password),
	})
	if msg := svc.Error(); msg != "" {
		return fmt.Errorf("login failed: %s", msg)
	}

	fmt.Printf("Signed in as %s\n", svc.User().DisplayName())
	return nil
}
