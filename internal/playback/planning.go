package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/tui"
	"github.com/alvarorichard/animesama-cli/internal/util"
)

// Planning shows the weekly schedule and plays a chosen anime
func (s *Session) Planning(ctx context.Context) error {
	var days []models.ScheduleDay
	if err := withSpinner("Loading planning...", func() (err error) {
		days, err = s.Resolver.Schedule(ctx)
		return err
	}); err != nil {
		return s.Handle(err)
	}
	if len(days) == 0 {
		s.println(util.Warning("The planning is empty."))
		return nil
	}

	names := make([]string, len(days))
	for i, d := range days {
		names[i] = fmt.Sprintf("%s (%d)", d.Day, len(d.Entries))
	}
	idx, _, err := util.SelectMenuItem("Select a day", names)
	if err != nil {
		return s.Handle(err)
	}
	day := days[idx]
	if len(day.Entries) == 0 {
		s.println(util.Warning("No anime scheduled for " + day.Day + "."))
		return nil
	}

	items := make([]string, len(day.Entries))
	for i, e := range day.Entries {
		items[i] = fmt.Sprintf("%s - %s - %s", e.Title, e.Time, e.Version)
	}
	idx, _, err = util.SelectMenuItem("Animes for "+day.Day, items)
	if err != nil {
		return s.Handle(err)
	}

	entry := day.Entries[idx]
	seasonURL := s.Resolver.PlanningURL(entry)
	label := api.SeasonLabel(models.Season{Name: entry.Version, Path: entry.Path}, seasonURL)
	return s.Handle(s.watchSeason(ctx, entry.Title, label, seasonURL))
}

// Upcoming shows the release countdown view
func (s *Session) Upcoming(ctx context.Context) error {
	var entries []models.UpcomingEntry
	if err := withSpinner("Loading upcoming releases...", func() (err error) {
		entries, err = s.Resolver.Upcoming(ctx)
		return err
	}); err != nil {
		return s.Handle(err)
	}
	util.Debugf("%d upcoming releases at %s", len(entries), time.Now().Format(time.RFC3339))
	return tui.RunUpcoming(entries)
}

// MainMenu is shown when the CLI starts without a query or mode
func (s *Session) MainMenu(ctx context.Context) error {
	for {
		_, choice, err := util.SelectMenuItem("Anime-sama CLI", []string{"Search", "History", "Planning", "Upcoming", "Quit"})
		if err != nil {
			return s.Handle(err)
		}

		switch choice {
		case "Search":
			query, err := util.PromptInput("Search")
			if err != nil {
				if err := s.Handle(err); err != nil {
					return err
				}
				continue
			}
			if err := s.Handle(s.Search(ctx, query)); err != nil {
				return err
			}
		case "History":
			if err := s.Handle(s.Continue(ctx, false)); err != nil {
				return err
			}
		case "Planning":
			if err := s.Handle(s.Planning(ctx)); err != nil {
				return err
			}
		case "Upcoming":
			if err := s.Handle(s.Upcoming(ctx)); err != nil {
				return err
			}
		default:
			s.println("Bye!")
			return nil
		}
	}
}
