package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/page-confessions/confession-relay/src/facebook"
	"github.com/page-confessions/confession-relay/src/scheduler"
)

// Connectivity check for the page feed: lists what the scheduler would see
// and prints the slot it would hand the next approval.
func main() {
	pageID := os.Getenv("PAGE_ID")
	token := os.Getenv("PAGE_ACCESS_TOKEN")
	if pageID == "" || token == "" {
		log.Fatal("PAGE_ID and PAGE_ACCESS_TOKEN must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	feed := facebook.NewClient(pageID, token, os.Getenv("GRAPH_URL"))

	scheduled, err := feed.ListScheduled(ctx)
	if err != nil {
		log.Fatalf("list scheduled: %v", err)
	}
	log.Printf("%d scheduled posts:", len(scheduled))
	for _, p := range scheduled {
		log.Printf("  %s  %s", p.Time.Format(time.RFC3339), p.Label)
	}

	published, err := feed.ListPublished(ctx, 2)
	if err != nil {
		log.Fatalf("list published: %v", err)
	}
	log.Printf("%d recent published posts:", len(published))
	for _, p := range published {
		log.Printf("  %s  %s", p.Time.Format(time.RFC3339), p.Label)
	}

	sched := scheduler.New(scheduler.Config{
		Feed:          feed,
		Prefix:        envOr("PAGE_START", "Post #"),
		IntervalHours: 2,
		StartHour:     11,
	})

	publishAt, seq, err := sched.NextSlot(ctx)
	if err != nil {
		if errors.Is(err, scheduler.ErrNoReferencePost) {
			log.Printf("no reference post yet; seed the page manually before first use")
			return
		}
		log.Fatalf("next slot: %v", err)
	}
	log.Printf("next slot: #%d at %s", seq, publishAt.Format(time.RFC3339))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
