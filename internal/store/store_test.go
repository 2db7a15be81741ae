package store

import (
	"fmt"
	"testing"

	"github.com/visualtutor-ai/tutor-platform/internal/model"
)

func turns(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		msgs[i] = model.Message{
			ID:       fmt.Sprintf("m%d", i),
			Sequence: uint64(i + 1),
		}
	}
	return msgs
}

func TestKeepTailWindowsToMostRecent(t *testing.T) {
	msgs := keepTail(turns(40), 20)

	if len(msgs) != 20 {
		t.Fatalf("got %d messages, want 20", len(msgs))
	}
	if msgs[0].ID != "m20" {
		t.Errorf("window starts at %s, want m20 (the head must be dropped, not the tail)", msgs[0].ID)
	}
	if msgs[19].ID != "m39" {
		t.Errorf("window ends at %s, want the latest turn m39", msgs[19].ID)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sequence <= msgs[i-1].Sequence {
			t.Fatalf("time order broken at index %d", i)
		}
	}
}

func TestKeepTailShortConversationUnchanged(t *testing.T) {
	msgs := keepTail(turns(5), 20)

	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want all 5", len(msgs))
	}
	if msgs[0].ID != "m0" || msgs[4].ID != "m4" {
		t.Errorf("short conversation must be returned whole, got %s..%s", msgs[0].ID, msgs[4].ID)
	}
}

func TestKeepTailExactLimit(t *testing.T) {
	msgs := keepTail(turns(20), 20)
	if len(msgs) != 20 || msgs[0].ID != "m0" {
		t.Errorf("at-limit conversation must be untouched")
	}
}

func TestTurnSubject(t *testing.T) {
	got := turnSubject("u1", "c1", model.RoleAssistant)
	if got != "lesson.u1.c1.msg.assistant" {
		t.Errorf("subject = %q", got)
	}
}
