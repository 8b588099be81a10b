package playback

import (
	"context"
	"fmt"
	"io"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// HistoryItem renders one history row for the selection menu
func HistoryItem(v api.HistoryView, full bool) string {
	item := fmt.Sprintf("%s - %s - %s", v.AnimeName, v.Season, v.Episode)
	if !v.Timestamp.IsZero() {
		item += " (" + v.Timestamp.Local().Format("02/01/2006 15:04") + ")"
	}
	if full {
		switch {
		case !v.Checked:
			item += " [?]"
		case v.IsLatest:
			item += " [up to date]"
		default:
			item += " [new episodes]"
		}
	}
	return item
}

func (s *Session) historyViews(ctx context.Context, full bool) ([]api.HistoryView, error) {
	entries, err := s.History.List(ctx)
	if err != nil {
		return nil, err
	}

	if !full {
		views := make([]api.HistoryView, len(entries))
		for i, e := range entries {
			views[i] = api.HistoryView{HistoryEntry: e}
		}
		return views, nil
	}

	var views []api.HistoryView
	err = withSpinner("Checking for new episodes...", func() error {
		views = s.History.Decorate(ctx, entries)
		return nil
	})
	return views, err
}

// Continue lists the history and plays the episode after the chosen entry.
// With full set every entry is first checked against its season's episode list.
func (s *Session) Continue(ctx context.Context, full bool) error {
	for {
		views, err := s.historyViews(ctx, full)
		if err != nil {
			return s.Handle(err)
		}
		if len(views) == 0 {
			s.println(util.Warning("History is empty."))
			return nil
		}

		items := make([]string, len(views)+1)
		for i, v := range views {
			items[i] = HistoryItem(v, full)
		}
		items[len(views)] = "Back"

		idx, _, err := util.SelectMenuItem("Continue watching", items)
		if err != nil || idx == len(views) {
			return s.Handle(err)
		}

		if err := s.historyAction(ctx, views[idx].HistoryEntry); err != nil {
			if errors.Is(err, ErrBack) {
				continue
			}
			return s.Handle(err)
		}
		return nil
	}
}

// historyAction offers to continue or delete one entry
func (s *Session) historyAction(ctx context.Context, entry models.HistoryEntry) error {
	_, choice, err := util.SelectMenuItem(entry.AnimeName+" - "+entry.Season, []string{"Continue", "Delete", "Back"})
	if err != nil {
		return err
	}

	switch choice {
	case "Continue":
		return s.continueEntry(ctx, entry)
	case "Delete":
		confirmed := false
		if err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s (%s) from history?", entry.AnimeName, entry.Season)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run(); err != nil {
			return err
		}
		if !confirmed {
			return ErrBack
		}
		if err := s.History.Delete(ctx, entry.ID); err != nil {
			return err
		}
		s.println(util.Success("Entry deleted"))
		return ErrBack
	default:
		return ErrBack
	}
}

func (s *Session) continueEntry(ctx context.Context, entry models.HistoryEntry) error {
	var p api.Playable
	if err := withSpinner("Looking for the next episode...", func() (err error) {
		p, err = s.History.Continue(ctx, entry)
		return err
	}); err != nil {
		return err
	}

	episodes, err := s.Resolver.Episodes(ctx, p.SeasonURL)
	if err != nil {
		return err
	}
	return s.playLoop(ctx, p, episodes)
}

// ExportHistory writes the history as indented JSON
func (s *Session) ExportHistory(ctx context.Context, w io.Writer, full bool) error {
	entries, err := s.History.List(ctx)
	if err != nil {
		return err
	}

	var payload interface{} = entries
	if full {
		payload = s.History.Decorate(ctx, entries)
	}
	if entries == nil {
		payload = []models.HistoryEntry{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode history")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
