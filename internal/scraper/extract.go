package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alvarorichard/animesama-cli/internal/models"
)

var (
	seasonPattern      = regexp.MustCompile(`panneauAnime\("([^"]+)",\s*"([^"]+)"\)`)
	fileverPattern     = regexp.MustCompile(`episodes\.js\?filever=(\d+)`)
	sibnetEmbedPattern = regexp.MustCompile(`https://video\.sibnet\.ru/shell\.php\?videoid=(\d+)`)
	playerHashPattern  = regexp.MustCompile(`player\.src\(\[\{src: "/v/([^/]+)/`)
)

// catalogueTitleSelector matches the heading of a search result card
const catalogueTitleSelector = "h1.text-white.font-bold.uppercase.text-md.line-clamp-2"

// ExtractSeasons lists the panneauAnime declarations of a detail page in document order.
// Films and the "nom" template placeholder are skipped.
func ExtractSeasons(html string) []models.Season {
	var seasons []models.Season
	for _, m := range seasonPattern.FindAllStringSubmatch(html, -1) {
		name, path := m[1], m[2]
		lower := strings.ToLower(name)
		if strings.Contains(lower, "film") || lower == "nom" {
			continue
		}
		seasons = append(seasons, models.Season{Name: name, Path: path})
	}
	return seasons
}

// ExtractEpisodeVersion returns the filever value referenced by a season page
func ExtractEpisodeVersion(html string) (string, bool) {
	m := fileverPattern.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractEpisodeMap numbers every sibnet embed of an episode script from 1, in order of appearance
func ExtractEpisodeMap(script string) models.EpisodeMap {
	var ids []string
	for _, m := range sibnetEmbedPattern.FindAllStringSubmatch(script, -1) {
		ids = append(ids, m[1])
	}
	return models.NewEpisodeMap(ids)
}

// ExtractVideoHash finds the path segment the sibnet player uses for the mp4
func ExtractVideoHash(html string) (string, bool) {
	m := playerHashPattern.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractVideoURL builds <host>/v/<hash>/<videoID>.mp4 from a sibnet embed page
func ExtractVideoURL(html, host, videoID string) (string, bool) {
	hash, ok := ExtractVideoHash(html)
	if !ok {
		return "", false
	}
	return strings.TrimRight(host, "/") + "/v/" + hash + "/" + videoID + ".mp4", true
}

// ExtractCatalogue parses a search results page into title/URL pairs in page order
func ExtractCatalogue(html, baseURL string) []models.CatalogueEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var entries []models.CatalogueEntry
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "catalogue") {
			return
		}
		title := strings.TrimSpace(s.Find(catalogueTitleSelector).First().Text())
		if title == "" {
			return
		}
		entries = append(entries, models.CatalogueEntry{
			Title:     title,
			DetailURL: resolveURL(baseURL, href),
		})
	})
	if len(entries) > 0 {
		return entries
	}

	// Cards whose heading sits beside the link rather than inside it
	var titles, links []string
	doc.Find(catalogueTitleSelector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			titles = append(titles, t)
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isCatalogueDetail(href) {
			links = append(links, resolveURL(baseURL, href))
		}
	})

	for i, title := range titles {
		detail := ""
		if i < len(links) {
			detail = links[i]
		} else {
			detail = strings.TrimRight(baseURL, "/") + "/catalogue/" + Slugify(title) + "/"
		}
		entries = append(entries, models.CatalogueEntry{Title: title, DetailURL: detail})
	}
	return entries
}

// isCatalogueDetail rejects the bare listing link and its paginated or filtered variants
func isCatalogueDetail(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.RawQuery != "" {
		return false
	}
	path := strings.Trim(u.Path, "/")
	return strings.HasPrefix(path, "catalogue/") && len(path) > len("catalogue/")
}

// resolveURL resolves relative URLs to absolute URLs
func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
