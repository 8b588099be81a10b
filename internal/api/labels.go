package api

import (
	"regexp"
	"strings"

	"github.com/alvarorichard/animesama-cli/internal/models"
)

var (
	saisonPathPattern = regexp.MustCompile(`/saison(\d+)`)
	vfPathPattern     = regexp.MustCompile(`/vf/?`)
)

// SeasonLabel is the season name stored in history, e.g. "Saison 2 - VOSTFR".
// Names that do not mention "saison" are derived from the URL path when possible.
func SeasonLabel(season models.Season, seasonURL string) string {
	label := season.Name
	lowerURL := strings.ToLower(seasonURL)

	if !strings.Contains(strings.ToLower(label), "saison") {
		switch m := saisonPathPattern.FindStringSubmatch(lowerURL); {
		case m != nil:
			label = "Saison " + m[1]
		case strings.Contains(lowerURL, "/oav"), strings.Contains(lowerURL, "/ova"):
			label = "OAV"
		case strings.Contains(lowerURL, "/film"):
			label = "Film"
		case strings.Contains(lowerURL, "/special"):
			label = "Special"
		}
	}

	var version models.Version
	switch {
	case strings.Contains(lowerURL, "vostfr"):
		version = models.VersionVOSTFR
	case vfPathPattern.MatchString(lowerURL):
		version = models.VersionVF
	}

	if version != "" && !strings.Contains(strings.ToLower(label), strings.ToLower(string(version))) {
		label += " - " + string(version)
	}
	return label
}
