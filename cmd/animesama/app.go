package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/config"
	"github.com/alvarorichard/animesama-cli/internal/player"
	"github.com/alvarorichard/animesama-cli/internal/playback"
	"github.com/alvarorichard/animesama-cli/internal/scraper"
	"github.com/alvarorichard/animesama-cli/internal/tracking"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/alvarorichard/animesama-cli/internal/version"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		version.ShowVersion(c.App.Writer)
	}

	return &cli.App{
		Name:            "animesama",
		Usage:           "watch anime-sama.fr from the terminal",
		UsageText:       "animesama [options] [anime name]",
		Version:         version.Version,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "continue", Aliases: []string{"c"}, Usage: "continue from the watch history"},
			&cli.BoolFlag{Name: "full", Aliases: []string{"f"}, Usage: "with --continue or --json, check every entry for new episodes"},
			&cli.BoolFlag{Name: "vf", Usage: "search the VF (dubbed) catalogue"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug output"},
			&cli.BoolFlag{Name: "planning", Aliases: []string{"p"}, Usage: "show the weekly release planning"},
			&cli.BoolFlag{Name: "upcoming", Aliases: []string{"u", "up"}, Usage: "show upcoming releases"},
			&cli.BoolFlag{Name: "json", Usage: "print the watch history as JSON and exit"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	start := time.Now()
	util.SetDebugMode(c.Bool("debug"))
	util.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	util.Debug("configuration loaded", "base", cfg.BaseURL, "db", cfg.DBPath, "player", cfg.DefaultPlayer)

	client := scraper.NewClient(
		scraper.WithBaseURL(cfg.BaseURL),
		scraper.WithVideoHost(cfg.VideoHost),
		scraper.WithUpcomingURL(cfg.UpcomingURL),
		scraper.WithDebug(util.IsDebug),
	)
	resolver := api.NewResolver(client, c.Bool("vf"))

	store := openHistory(c.Context, cfg)
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	history := api.NewHistoryService(nil, resolver)
	if store != nil {
		history = api.NewHistoryService(store, resolver)
	}

	session := playback.NewSession(resolver, history, player.NewLauncher(cfg.DefaultPlayer))
	util.Debugf("ready in %s", time.Since(start))

	return dispatch(c, session)
}

// openHistory opens the store and imports the legacy database once. Failures only disable history.
func openHistory(ctx context.Context, cfg *config.Config) *tracking.Store {
	tracking.HandleTrackingNotice()

	store, err := tracking.Open(ctx, cfg.DBPath)
	if err != nil {
		if tracking.IsCgoEnabled {
			util.Warnf("history disabled: %v", err)
		}
		return nil
	}

	if n, err := store.ImportLegacy(ctx, cfg.LegacyDBPath); err != nil {
		util.Warnf("legacy history import failed: %v", err)
	} else if n > 0 {
		util.Infof("imported %d entries from %s", n, cfg.LegacyDBPath)
	}
	return store
}

func dispatch(c *cli.Context, s *playback.Session) error {
	ctx := c.Context
	full := c.Bool("full")

	switch {
	case c.Bool("json"):
		return s.ExportHistory(ctx, os.Stdout, full)
	case c.Bool("continue"):
		return s.Continue(ctx, full)
	case c.Bool("planning"):
		return s.Planning(ctx)
	case c.Bool("upcoming"):
		return s.Upcoming(ctx)
	case c.NArg() > 0:
		return s.Search(ctx, strings.Join(c.Args().Slice(), " "))
	default:
		return s.MainMenu(ctx)
	}
}
