package moderation

import (
	"context"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// RowStore is the spreadsheet boundary: one page of rows per read, and a
// status write that repaints a single row.
type RowStore interface {
	ReadRange(ctx context.Context, startRow int) ([]Row, error)
	WriteStatus(ctx context.Context, rowIndex int, status Status) error
}

// Messenger is the moderator chat boundary.
type Messenger interface {
	Send(ctx context.Context, recipientID, text string) error
	FetchText(ctx context.Context, messageID string) (string, error)
}

// PostScheduler assigns the next publication slot and creates the scheduled
// post for an approved submission, as one call so slot computation and the
// create stay a single critical section.
type PostScheduler interface {
	SchedulePost(ctx context.Context, text string) (publishAt time.Time, sequenceID int, err error)
}

type Config struct {
	Store        RowStore
	Messenger    Messenger
	Scheduler    PostScheduler
	Watermark    *Watermark
	DB           *gorm.DB // audit log; optional
	ReviewWindow int
}

// Engine is the moderation core: it surfaces unreviewed rows as prompts and
// applies yes/no replies back to the row store and the publication feed.
type Engine struct {
	store        RowStore
	messenger    Messenger
	scheduler    PostScheduler
	watermark    *Watermark
	db           *gorm.DB
	reviewWindow int
	sanitizer    *bluemonday.Policy
}

// cleanText strips any markup from a submission before it becomes a public
// post body. The sanitizer entity-escapes what it keeps, and the feed wants
// plain text, so the escaping is undone again.
func (e *Engine) cleanText(text string) string {
	return html.UnescapeString(e.sanitizer.Sanitize(text))
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		store:        cfg.Store,
		messenger:    cfg.Messenger,
		scheduler:    cfg.Scheduler,
		watermark:    cfg.Watermark,
		db:           cfg.DB,
		reviewWindow: cfg.ReviewWindow,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}
