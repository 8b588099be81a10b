package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSchedule(t *testing.T) {
	t.Parallel()

	html := `
	<h2 class="titreJours text-white">Lundi</h2>
	<script>
	cartePlanningAnime("One Piece", "one-piece/saison11/vostfr", "x", "17h00", "", "VOSTFR");
	cartePlanningAnime("Dan Da Dan", "dandadan/saison2/vf", "y", "18h30", "Anime", "VF");
	</script>
	<h2 class="titreJours">Mardi</h2>
	<h2 class="titreJours">Mercredi</h2>
	<script>cartePlanningAnime("Frieren", "frieren/saison2/vostfr", "z", "16h00", "", "VOSTFR");</script>`

	days := ExtractSchedule(html)
	require.Len(t, days, 3)

	assert.Equal(t, "Lundi", days[0].Day)
	require.Len(t, days[0].Entries, 2)
	assert.Equal(t, "One Piece", days[0].Entries[0].Title)
	assert.Equal(t, "one-piece/saison11/vostfr", days[0].Entries[0].Path)
	assert.Equal(t, "17h00", days[0].Entries[0].Time)
	assert.Equal(t, "VF", days[0].Entries[1].Version)

	assert.Equal(t, "Mardi", days[1].Day)
	assert.Empty(t, days[1].Entries)

	require.Len(t, days[2].Entries, 1)
	assert.Equal(t, "Frieren", days[2].Entries[0].Title)
}

func TestExtractScheduleWithoutDays(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ExtractSchedule(`cartePlanningAnime("Orphan", "p", "x", "1h", "", "VF");`))
}
