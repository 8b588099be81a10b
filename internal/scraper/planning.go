package scraper

import (
	"regexp"
	"strings"

	"github.com/alvarorichard/animesama-cli/internal/models"
)

var (
	planningDayPattern   = regexp.MustCompile(`<h2 class="titreJours[^>]*>([^<]+)</h2>`)
	planningEntryPattern = regexp.MustCompile(`cartePlanningAnime\("([^"]+)", "([^"]+)", "[^"]+", "([^"]+)", "[^"]*", "([^"]+)"\);`)
)

// ExtractSchedule groups the planning page cards under the weekday heading that precedes them.
// Days keep page order; a day heading repeated later in the page merges into the first one.
func ExtractSchedule(html string) []models.ScheduleDay {
	heads := planningDayPattern.FindAllStringSubmatchIndex(html, -1)
	var days []models.ScheduleDay
	index := map[string]int{}

	for i, h := range heads {
		day := strings.TrimSpace(html[h[2]:h[3]])
		end := len(html)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}

		pos, ok := index[day]
		if !ok {
			pos = len(days)
			index[day] = pos
			days = append(days, models.ScheduleDay{Day: day})
		}

		for _, m := range planningEntryPattern.FindAllStringSubmatch(html[h[1]:end], -1) {
			days[pos].Entries = append(days[pos].Entries, models.ScheduleEntry{
				Title:   m[1],
				Path:    m[2],
				Time:    m[3],
				Version: m[4],
			})
		}
	}
	return days
}
