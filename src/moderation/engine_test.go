package moderation

import (
	"context"
	"time"
)

type statusWrite struct {
	rowIndex int
	status   Status
}

type fakeStore struct {
	rows      []Row
	readErr   error
	readCalls []int
	writes    []statusWrite
	writeErr  error
}

func (f *fakeStore) ReadRange(ctx context.Context, startRow int) ([]Row, error) {
	f.readCalls = append(f.readCalls, startRow)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows, nil
}

func (f *fakeStore) WriteStatus(ctx context.Context, rowIndex int, status Status) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, statusWrite{rowIndex, status})
	return nil
}

type sentMessage struct {
	to   string
	text string
}

type fakeMessenger struct {
	sent     []sentMessage
	sendErr  error
	texts    map[string]string
	fetchErr error
}

func (f *fakeMessenger) Send(ctx context.Context, recipientID, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{recipientID, text})
	return nil
}

func (f *fakeMessenger) FetchText(ctx context.Context, messageID string) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.texts[messageID], nil
}

type fakeScheduler struct {
	scheduled []string
	publishAt time.Time
	seq       int
	err       error
}

func (f *fakeScheduler) SchedulePost(ctx context.Context, text string) (time.Time, int, error) {
	if f.err != nil {
		return time.Time{}, 0, f.err
	}
	f.scheduled = append(f.scheduled, text)
	return f.publishAt, f.seq, nil
}

func newTestEngine(store *fakeStore, msgr *fakeMessenger, sched *fakeScheduler, baseline int) *Engine {
	return NewEngine(Config{
		Store:        store,
		Messenger:    msgr,
		Scheduler:    sched,
		Watermark:    NewWatermark(context.Background(), nil, baseline),
		ReviewWindow: 400,
	})
}
