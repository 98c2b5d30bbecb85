package moderation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/page-confessions/confession-relay/src/types"
)

// DecisionResult reports what a yes/no reply did.
type DecisionResult struct {
	RowIndex   int
	Approved   bool
	SequenceID int
	PublishAt  time.Time
}

// HandleDecision applies a moderator's yes/no reply. replyToMessageID is
// the prompt message the moderator replied to; an empty id returns
// ErrNotAReply (callers ignore it, a bare "yes" in the channel is just
// conversation). The status write happens before scheduling and is not
// rolled back if scheduling fails: the row stays marked approved and the
// error is surfaced. A repeated decision on the same row overwrites the
// previous one, and approving twice schedules twice. See DESIGN.md.
func (e *Engine) HandleDecision(ctx context.Context, replyToMessageID, moderator string, approve bool) (*DecisionResult, error) {
	if replyToMessageID == "" {
		return nil, ErrNotAReply
	}

	prompt, err := e.messenger.FetchText(ctx, replyToMessageID)
	if err != nil {
		return nil, fmt.Errorf("fetch prompt %s: %w", replyToMessageID, err)
	}

	rowIndex, text, err := ParsePrompt(prompt)
	if err != nil {
		return nil, err
	}

	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	if err := e.store.WriteStatus(ctx, rowIndex, status); err != nil {
		return nil, fmt.Errorf("write status for row %d: %w", rowIndex, err)
	}

	result := &DecisionResult{RowIndex: rowIndex, Approved: approve}
	if approve {
		publishAt, seq, err := e.scheduler.SchedulePost(ctx, e.cleanText(text))
		if err != nil {
			// Row already reads approved at this point; log the gap and
			// surface the error so the moderator knows to reschedule.
			e.audit(moderator, result)
			return nil, fmt.Errorf("schedule row %d (status already approved): %w", rowIndex, err)
		}
		result.SequenceID = seq
		result.PublishAt = publishAt
	}

	e.audit(moderator, result)
	log.Printf("review: row %d %s by %s", rowIndex, statusWord(approve), moderator)
	return result, nil
}

func (e *Engine) audit(moderator string, r *DecisionResult) {
	if e.db == nil {
		return
	}
	entry := types.ReviewLog{
		RowIndex:   r.RowIndex,
		Moderator:  moderator,
		Approved:   r.Approved,
		SequenceID: r.SequenceID,
	}
	if !r.PublishAt.IsZero() {
		t := r.PublishAt
		entry.PublishAt = &t
	}
	if err := e.db.Create(&entry).Error; err != nil {
		log.Printf("review: audit log row %d: %v", r.RowIndex, err)
	}
}

func statusWord(approve bool) string {
	if approve {
		return "approved"
	}
	return "rejected"
}
