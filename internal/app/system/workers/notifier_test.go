package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/disputehub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/email"
	"go.uber.org/zap"
)

// unreachableSender targets a closed local port so every attempt fails fast.
func unreachableSender() *email.Sender {
	return mailer.NewSender(mailer.Config{
		Host:    "127.0.0.1",
		Port:    1,
		From:    "noreply@disputehub.local",
		Timeout: 2 * time.Second,
	})
}

func sample(to string) mailer.Email {
	return mailer.Email{To: to, Subject: "hi", TextBody: "hello"}
}

func TestNotifier_QueuesUntilStarted(t *testing.T) {
	n := NewNotifier(unreachableSender(), zap.NewNop(), NotifierConfig{})
	for _, to := range []string{"a@example.com", "b@example.com"} {
		if !n.Enqueue(sample(to)) {
			t.Fatalf("Enqueue(%s) rejected", to)
		}
	}
	if got := n.backlog(context.Background()); got != 2 {
		t.Errorf("backlog = %d, want 2", got)
	}
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	n := NewNotifier(unreachableSender(), zap.NewNop(), NotifierConfig{QueueSize: 2})
	if !n.Enqueue(sample("a@example.com")) || !n.Enqueue(sample("b@example.com")) {
		t.Fatal("expected first two to be accepted")
	}
	if n.Enqueue(sample("c@example.com")) {
		t.Error("expected third to be dropped")
	}
}

func TestNotifier_RejectsAfterStop(t *testing.T) {
	n := NewNotifier(unreachableSender(), zap.NewNop(), NotifierConfig{})
	n.Start()
	if err := n.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if n.Enqueue(sample("a@example.com")) {
		t.Error("Enqueue after Stop should report false")
	}
}

func TestNotifier_GivesUpThenDrains(t *testing.T) {
	n := NewNotifier(unreachableSender(), zap.NewNop(), NotifierConfig{MaxAttempts: 2})
	n.Start()
	n.Enqueue(sample("a@example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := n.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	st, err := n.store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Failed != 1 || st.Pending != 0 || st.Sending != 0 {
		t.Errorf("stats = %+v, want one failed and nothing pending", st)
	}

	if removed := n.Prune(context.Background(), 0); removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
}

func TestNotifier_StopHonorsDeadline(t *testing.T) {
	n := NewNotifier(unreachableSender(), zap.NewNop(), NotifierConfig{DrainPoll: 5 * time.Millisecond})
	n.Enqueue(sample("a@example.com"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := n.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop = %v, want deadline exceeded", err)
	}
}
