package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNoReferencePost means neither a scheduled nor a published post
	// exists to anchor the next slot. Seeding the first post is manual.
	ErrNoReferencePost = errors.New("no scheduled or published post to anchor on")

	// ErrMalformedLabel means the reference post's label did not match
	// "<prefix><integer>: <text>". The sequence cannot be guessed.
	ErrMalformedLabel = errors.New("reference post label does not match the page format")
)

// FeedPost is one item on the publication feed, scheduled or published.
type FeedPost struct {
	Label string
	Time  time.Time
}

// Feed is the publication boundary (the Facebook page).
type Feed interface {
	ListScheduled(ctx context.Context) ([]FeedPost, error)
	ListPublished(ctx context.Context, limit int) ([]FeedPost, error)
	CreateScheduled(ctx context.Context, message string, publishAt time.Time) error
}

const publishedLookback = 2

type Config struct {
	Feed          Feed
	Prefix        string // public label prefix, e.g. "Post #"
	IntervalHours int    // hours between scheduled posts
	StartHour     int    // hour-of-day used after a midnight rollover
	Location      *time.Location
	Now           func() time.Time // defaults to time.Now
}

// Scheduler assigns publication slots. Slot computation reads the feed and
// the create writes it back later, so two racing approvals could both claim
// the same slot; SchedulePost holds one mutex across read and create to
// keep the sequence dense.
type Scheduler struct {
	feed      Feed
	prefix    string
	interval  time.Duration
	startHour int
	loc       *time.Location
	now       func() time.Time
	mu        sync.Mutex
}

func New(cfg Config) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		feed:      cfg.Feed,
		prefix:    cfg.Prefix,
		interval:  time.Duration(cfg.IntervalHours) * time.Hour,
		startHour: cfg.StartHour,
		loc:       loc,
		now:       now,
	}
}

// Label renders the public label for a sequence id and post body.
func (s *Scheduler) Label(sequenceID int, text string) string {
	return fmt.Sprintf("%s%d: %s", s.prefix, sequenceID, text)
}

// SchedulePost computes the next slot and creates the scheduled post in one
// critical section. Returns the slot it claimed.
func (s *Scheduler) SchedulePost(ctx context.Context, text string) (time.Time, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	publishAt, seq, err := s.nextSlot(ctx)
	if err != nil {
		return time.Time{}, 0, err
	}
	if err := s.feed.CreateScheduled(ctx, s.Label(seq, text), publishAt); err != nil {
		return time.Time{}, 0, fmt.Errorf("create scheduled post %d: %w", seq, err)
	}
	log.Printf("scheduler: post %d scheduled for %s", seq, publishAt.Format(time.RFC3339))
	return publishAt, seq, nil
}

// NextSlot computes the next publication timestamp and sequence id without
// claiming them. Exposed for the ops API; approvals go through SchedulePost.
func (s *Scheduler) NextSlot(ctx context.Context) (time.Time, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSlot(ctx)
}

func (s *Scheduler) nextSlot(ctx context.Context) (time.Time, int, error) {
	ref, err := s.referencePost(ctx)
	if err != nil {
		return time.Time{}, 0, err
	}

	lastSeq, err := s.parseSequence(ref.Label)
	if err != nil {
		return time.Time{}, 0, err
	}

	base := ref.Time.In(s.loc)
	if now := s.now().In(s.loc); now.After(base) {
		base = now
	}

	candidate := base.Add(s.interval)
	// An interval that crosses local midnight would land the post in the
	// small hours; push it to the page's start hour on the new day instead.
	by, bm, bd := base.Date()
	cy, cm, cd := candidate.Date()
	if by != cy || bm != cm || bd != cd {
		candidate = time.Date(cy, cm, cd, s.startHour, candidate.Minute(), candidate.Second(), 0, s.loc)
	}

	return candidate, lastSeq + 1, nil
}

// referencePost returns the most recent scheduled post, or the most recent
// published one when nothing is queued.
func (s *Scheduler) referencePost(ctx context.Context) (FeedPost, error) {
	posts, err := s.feed.ListScheduled(ctx)
	if err != nil {
		return FeedPost{}, fmt.Errorf("list scheduled posts: %w", err)
	}
	if len(posts) == 0 {
		posts, err = s.feed.ListPublished(ctx, publishedLookback)
		if err != nil {
			return FeedPost{}, fmt.Errorf("list published posts: %w", err)
		}
	}
	if len(posts) == 0 {
		return FeedPost{}, ErrNoReferencePost
	}

	ref := posts[0]
	for _, p := range posts[1:] {
		if p.Time.After(ref.Time) {
			ref = p
		}
	}
	return ref, nil
}

func (s *Scheduler) parseSequence(label string) (int, error) {
	rest, ok := strings.CutPrefix(label, s.prefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}
	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}
	seq, err := strconv.Atoi(strings.TrimSpace(rest[:colon]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}
	return seq, nil
}
