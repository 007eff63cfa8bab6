package host

import (
	"context"
	"fmt"
	"testing"

	"github.com/TWRT/project-gantt/internal/models"
)

func TestNotificationsSince(t *testing.T) {
	n := NewNotifications(10)
	first := n.Notify("Dates updated.", models.SeveritySuccess)
	n.Notify("Could not update the task.", models.SeverityDanger)

	all := n.Since("")
	if len(all) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(all))
	}

	rest := n.Since(first.Id)
	if len(rest) != 1 || rest[0].Type != models.SeverityDanger {
		t.Errorf("expected only the danger notification, got %+v", rest)
	}
}

func TestNotificationsBounded(t *testing.T) {
	n := NewNotifications(3)
	for i := 0; i < 5; i++ {
		n.Notify(fmt.Sprintf("msg %d", i), models.SeverityInfo)
	}
	all := n.Since("")
	if len(all) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(all))
	}
	if all[0].Message != "msg 2" {
		t.Errorf("expected oldest entries dropped, got %q first", all[0].Message)
	}
}

func TestNotificationsSinceEvictedCursor(t *testing.T) {
	n := NewNotifications(2)
	seen := n.Notify("msg 0", models.SeverityInfo)
	n.Notify("msg 1", models.SeverityInfo)
	n.Notify("msg 2", models.SeverityInfo)
	n.Notify("msg 3", models.SeverityInfo)

	got := n.Since(seen.Id)
	if len(got) != 2 || got[0].Message != "msg 2" || got[1].Message != "msg 3" {
		t.Fatalf("expected only the entries newer than the evicted cursor, got %+v", got)
	}
	if again := n.Since(got[1].Id); len(again) != 0 {
		t.Errorf("expected nothing after the newest entry, got %+v", again)
	}
}

func TestActionsDrain(t *testing.T) {
	a := NewActions()
	if got := a.Drain(); len(got) != 0 {
		t.Fatalf("expected empty queue, got %+v", got)
	}

	action := models.Action{Type: "ir.actions.act_window", ResModel: "project.task", ResId: 42, Target: "current"}
	if err := a.DoAction(context.Background(), action); err != nil {
		t.Fatalf("DoAction failed: %v", err)
	}
	got := a.Drain()
	if len(got) != 1 || got[0].ResId != 42 {
		t.Errorf("unexpected drained actions: %+v", got)
	}
	if again := a.Drain(); len(again) != 0 {
		t.Errorf("expected queue cleared after drain, got %+v", again)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.DoAction(ctx, action); err == nil {
		t.Error("expected error for cancelled context")
	}
}
