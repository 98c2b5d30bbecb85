package moderation

import (
	"context"
	"fmt"
	"log"
)

const noNewSubmissions = "No new submissions!"

// CheckLatest surfaces rows newer than the watermark.
func (e *Engine) CheckLatest(ctx context.Context, recipient string) error {
	return e.FetchUnreviewed(ctx, recipient, e.watermark.Current())
}

// CheckUnread re-surfaces a bounded backlog: everything from reviewWindow
// rows behind the watermark onward, so older rows nobody decided yet get a
// second pass without rescanning the whole sheet.
func (e *Engine) CheckUnread(ctx context.Context, recipient string) error {
	return e.FetchUnreviewed(ctx, recipient, e.watermark.Current()-e.reviewWindow)
}

// FetchUnreviewed reads one page of rows starting at startRow and sends one
// prompt per still-unreviewed row to recipient, in ascending row order. The
// watermark advances after any successful read, even when every row turned
// out to be decided already: it records "we looked", not "we found".
func (e *Engine) FetchUnreviewed(ctx context.Context, recipient string, startRow int) error {
	if startRow < 1 {
		startRow = 1
	}

	rows, err := e.store.ReadRange(ctx, startRow)
	if err != nil {
		return fmt.Errorf("read rows from %d: %w", startRow, err)
	}

	if len(rows) == 0 {
		if err := e.messenger.Send(ctx, recipient, noNewSubmissions); err != nil {
			log.Printf("retrieval: notify %s: %v", recipient, err)
		}
		e.watermark.Advance(ctx, startRow, 0)
		return nil
	}

	sent := 0
	for _, row := range rows {
		if row.Status != StatusUnreviewed {
			continue
		}
		if err := e.messenger.Send(ctx, recipient, FormatPrompt(row.Index, row.Text)); err != nil {
			// Prompt delivery is fire-and-forget; a dropped prompt just
			// means the row comes back on the next "check unread".
			log.Printf("retrieval: send prompt for row %d: %v", row.Index, err)
			continue
		}
		sent++
	}

	// Rows come back in ascending order; the last index bounds the scan.
	scanned := rows[len(rows)-1].Index - startRow + 1
	newMark := e.watermark.Advance(ctx, startRow, scanned)
	log.Printf("retrieval: scanned %d rows from %d, prompted %d, watermark now %d",
		scanned, startRow, sent, newMark)
	return nil
}
