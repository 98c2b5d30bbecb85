package moderation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHandleDecisionReject(t *testing.T) {
	store := &fakeStore{}
	msgr := &fakeMessenger{texts: map[string]string{"m1": "42 the confession text"}}
	sched := &fakeScheduler{}
	e := newTestEngine(store, msgr, sched, 1)

	result, err := e.HandleDecision(context.Background(), "m1", "mod", false)
	if err != nil {
		t.Fatalf("HandleDecision: %v", err)
	}
	if result.RowIndex != 42 || result.Approved {
		t.Fatalf("result = %+v, want row 42 rejected", result)
	}
	if len(store.writes) != 1 || store.writes[0] != (statusWrite{42, StatusRejected}) {
		t.Fatalf("writes = %v, want single rejected write for row 42", store.writes)
	}
	if len(sched.scheduled) != 0 {
		t.Fatalf("rejection scheduled a post: %v", sched.scheduled)
	}
}

func TestHandleDecisionApprove(t *testing.T) {
	publishAt := time.Date(2024, 3, 11, 11, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	msgr := &fakeMessenger{texts: map[string]string{"m2": "7 hello there"}}
	sched := &fakeScheduler{publishAt: publishAt, seq: 42}
	e := newTestEngine(store, msgr, sched, 1)

	result, err := e.HandleDecision(context.Background(), "m2", "mod", true)
	if err != nil {
		t.Fatalf("HandleDecision: %v", err)
	}
	if result.RowIndex != 7 || !result.Approved || result.SequenceID != 42 || !result.PublishAt.Equal(publishAt) {
		t.Fatalf("result = %+v", result)
	}
	if len(store.writes) != 1 || store.writes[0] != (statusWrite{7, StatusApproved}) {
		t.Fatalf("writes = %v, want single approved write for row 7", store.writes)
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0] != "hello there" {
		t.Fatalf("scheduled = %v, want the submission text", sched.scheduled)
	}
}

func TestHandleDecisionApprovePreservesPunctuation(t *testing.T) {
	store := &fakeStore{}
	msgr := &fakeMessenger{texts: map[string]string{
		"m6": "11 don't worry & be happy <3",
		"m7": "12 nice try <script>alert(1)</script> anon",
	}}
	sched := &fakeScheduler{publishAt: time.Date(2024, 3, 11, 11, 0, 0, 0, time.UTC), seq: 1}
	e := newTestEngine(store, msgr, sched, 1)

	// Ordinary punctuation must reach the feed exactly as submitted.
	if _, err := e.HandleDecision(context.Background(), "m6", "mod", true); err != nil {
		t.Fatalf("HandleDecision: %v", err)
	}
	if got := sched.scheduled[0]; got != "don't worry & be happy <3" {
		t.Fatalf("post body = %q, want the raw submission text", got)
	}

	// Markup is still stripped before publication.
	if _, err := e.HandleDecision(context.Background(), "m7", "mod", true); err != nil {
		t.Fatalf("HandleDecision: %v", err)
	}
	if got := sched.scheduled[1]; got != "nice try  anon" {
		t.Fatalf("post body = %q, want markup removed", got)
	}
}

func TestHandleDecisionNotAReply(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeMessenger{}, &fakeScheduler{}, 1)

	if _, err := e.HandleDecision(context.Background(), "", "mod", true); !errors.Is(err, ErrNotAReply) {
		t.Fatalf("err = %v, want ErrNotAReply", err)
	}
	if len(store.writes) != 0 {
		t.Fatalf("writes = %v, want none", store.writes)
	}
}

func TestHandleDecisionMalformedPrompt(t *testing.T) {
	store := &fakeStore{}
	msgr := &fakeMessenger{texts: map[string]string{"m3": "not a prompt at all"}}
	sched := &fakeScheduler{}
	e := newTestEngine(store, msgr, sched, 1)

	if _, err := e.HandleDecision(context.Background(), "m3", "mod", true); !errors.Is(err, ErrMalformedPrompt) {
		t.Fatalf("err = %v, want ErrMalformedPrompt", err)
	}
	if len(store.writes) != 0 {
		t.Fatalf("writes = %v, want store untouched", store.writes)
	}
	if len(sched.scheduled) != 0 {
		t.Fatalf("scheduled = %v, want nothing", sched.scheduled)
	}
}

func TestHandleDecisionFetchError(t *testing.T) {
	store := &fakeStore{}
	msgr := &fakeMessenger{fetchErr: errors.New("message gone")}
	e := newTestEngine(store, msgr, &fakeScheduler{}, 1)

	if _, err := e.HandleDecision(context.Background(), "m4", "mod", true); err == nil {
		t.Fatal("want error from failed fetch")
	}
	if len(store.writes) != 0 {
		t.Fatalf("writes = %v, want none", store.writes)
	}
}

func TestHandleDecisionSchedulingFailureKeepsApproval(t *testing.T) {
	store := &fakeStore{}
	msgr := &fakeMessenger{texts: map[string]string{"m5": "9 doomed text"}}
	sched := &fakeScheduler{err: errors.New("feed unavailable")}
	e := newTestEngine(store, msgr, sched, 1)

	_, err := e.HandleDecision(context.Background(), "m5", "mod", true)
	if err == nil {
		t.Fatal("want scheduling error surfaced")
	}
	// The status write happens first and is not rolled back.
	if len(store.writes) != 1 || store.writes[0] != (statusWrite{9, StatusApproved}) {
		t.Fatalf("writes = %v, want row 9 still approved", store.writes)
	}
}
