package main

import (
	"context"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elclub/papyrus/internal/api"
	"github.com/elclub/papyrus/internal/colombia"
	"github.com/elclub/papyrus/internal/config"
	"github.com/elclub/papyrus/internal/listing"
	"github.com/elclub/papyrus/internal/notify"
	"github.com/elclub/papyrus/internal/state"
	"github.com/elclub/papyrus/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// the TUI owns the terminal
	if cfg.UI.LogFile != "" {
		f, err := tea.LogToFile(cfg.UI.LogFile, "papyrus")
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Println(colombia.Debug(colombia.Now()))

	bus := notify.NewBus(notify.WithTTL(cfg.UI.NotificationTTL))
	defer bus.Close()
	store := state.New(bus)

	plain := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	tracked := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.Tracked(bus))

	loadProfile(ctx, plain, cfg.API.ProfilePath, store)

	packages := listing.New[listing.Item](
		api.ListSource(plain, cfg.API.PackagesPath),
		listing.MapAccessor{},
		bus,
		listing.Config{ItemsPerPage: cfg.UI.ItemsPerPage, SortBy: cfg.UI.SortBy},
	)

	p := tea.NewProgram(tui.New(ctx, cfg, store, tui.Services{
		Packages: packages,
		Client:   tracked,
	}), tea.WithAltScreen())

	// Send blocks until the event loop reads it, and Dismiss runs inside Update.
	bus.OnChange(func() { go p.Send(tui.NotificationsChanged{}) })

	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// loadProfile signs the store in with the backend profile when one is
// available. A missing or failing profile leaves the session anonymous.
func loadProfile(ctx context.Context, c *api.Client, path string, store *state.Store) {
	if path == "" {
		return
	}
	profile, err := c.FetchObject(ctx, path)
	if err != nil {
		log.Printf("profile: %v", err)
		return
	}
	if inner, ok := profile["data"].(map[string]any); ok {
		profile = inner
	}
	if u := state.UserFromMap(profile); u.Username != "" {
		store.SetUser(u)
	}
}
