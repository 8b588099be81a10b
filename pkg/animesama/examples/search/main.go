package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alvarorichard/animesama-cli/pkg/animesama"
	"github.com/goccy/go-json"
)

func main() {
	query := "frieren"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := animesama.NewClient()
	results, err := client.SearchAnime(ctx, query)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	for _, anime := range results {
		seasons, err := client.GetSeasons(ctx, anime)
		if err != nil {
			log.Printf("%s: %v", anime.Name, err)
			continue
		}
		out, err := json.MarshalIndent(struct {
			Anime   any `json:"anime"`
			Seasons any `json:"seasons"`
		}{anime, seasons}, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	}
}
