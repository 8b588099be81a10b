package scraper

import (
	"testing"

	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSeasonsFiltersFilmsAndPlaceholder(t *testing.T) {
	t.Parallel()

	html := `
	<script>
		panneauAnime("nom", "url");
		panneauAnime("Saison 1", "saison1/vostfr");
		panneauAnime("Films", "film/vostfr");
		panneauAnime("Saison 2",  "saison2/vostfr");
		panneauAnime("OAV", "oav/vostfr");
	</script>`

	seasons := ExtractSeasons(html)
	assert.Equal(t, []models.Season{
		{Name: "Saison 1", Path: "saison1/vostfr"},
		{Name: "Saison 2", Path: "saison2/vostfr"},
		{Name: "OAV", Path: "oav/vostfr"},
	}, seasons)
}

func TestExtractSeasonsEmptyWhenAbsent(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ExtractSeasons(`<html><body>no panels</body></html>`))
}

func TestExtractEpisodeVersion(t *testing.T) {
	t.Parallel()

	v, ok := ExtractEpisodeVersion(`<script src="episodes.js?filever=1234"></script>`)
	require.True(t, ok)
	assert.Equal(t, "1234", v)

	_, ok = ExtractEpisodeVersion(`<script src="episodes.js"></script>`)
	assert.False(t, ok)
}

func TestExtractEpisodeMapIsPositional(t *testing.T) {
	t.Parallel()

	script := `var eps1 = [
		'https://video.sibnet.ru/shell.php?videoid=111',
		'https://sendvid.com/embed/zzz',
		'https://video.sibnet.ru/shell.php?videoid=222',
		'https://video.sibnet.ru/shell.php?videoid=333',
	];`

	m := ExtractEpisodeMap(script)
	require.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"1", "2", "3"}, m.Keys())

	id, ok := m.VideoID("2")
	require.True(t, ok)
	assert.Equal(t, "222", id)
}

func TestExtractVideoURL(t *testing.T) {
	t.Parallel()

	page := `player.src([{src: "/v/abc123def/4567.mp4", type: "video/mp4"}]);`

	hash, ok := ExtractVideoHash(page)
	require.True(t, ok)
	assert.Equal(t, "abc123def", hash)

	u, ok := ExtractVideoURL(page, "https://video.sibnet.ru/", "4567")
	require.True(t, ok)
	assert.Equal(t, "https://video.sibnet.ru/v/abc123def/4567.mp4", u)

	_, ok = ExtractVideoURL(`<html>removed</html>`, "https://video.sibnet.ru", "4567")
	assert.False(t, ok)
}

func TestExtractCatalogueNestedHeadings(t *testing.T) {
	t.Parallel()

	html := `
	<a href="/catalogue/">Catalogue</a>
	<div class="cards">
		<a href="/catalogue/naruto/">
			<img src="naruto.jpg">
			<h1 class="text-white font-bold uppercase text-md line-clamp-2"> Naruto </h1>
		</a>
		<a href="https://anime-sama.fr/catalogue/naruto-shippuden/">
			<h1 class="text-white font-bold uppercase text-md line-clamp-2">Naruto Shippuden</h1>
		</a>
		<a href="/planning/"><h1 class="text-white font-bold uppercase text-md line-clamp-2">Planning</h1></a>
	</div>`

	entries := ExtractCatalogue(html, "https://anime-sama.fr")
	assert.Equal(t, []models.CatalogueEntry{
		{Title: "Naruto", DetailURL: "https://anime-sama.fr/catalogue/naruto/"},
		{Title: "Naruto Shippuden", DetailURL: "https://anime-sama.fr/catalogue/naruto-shippuden/"},
	}, entries)
}

func TestExtractCataloguePositionalFallback(t *testing.T) {
	t.Parallel()

	html := `
	<a href="/catalogue/?page=2">next</a>
	<div class="card"><a href="/catalogue/one-piece/"><img></a><h1 class="text-white font-bold uppercase text-md line-clamp-2">One Piece</h1></div>
	<div class="card"><h1 class="text-white font-bold uppercase text-md line-clamp-2">Kimetsu no Yaiba : Hashira Geiko-hen</h1></div>`

	entries := ExtractCatalogue(html, "https://anime-sama.fr")
	require.Len(t, entries, 2)
	assert.Equal(t, "https://anime-sama.fr/catalogue/one-piece/", entries[0].DetailURL)
	assert.Equal(t, "https://anime-sama.fr/catalogue/kimetsu-no-yaiba-hashira-geiko-hen/", entries[1].DetailURL)
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "re-zero-kara-hajimeru-isekai-seikatsu", Slugify("Re:Zero kara Hajimeru Isekai Seikatsu"))
	assert.Equal(t, "l-attaque-des-titans", Slugify("L Attaque des Titans"))
	assert.Equal(t, "pokemon", Slugify("Pokémon"))
}
