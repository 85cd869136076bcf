package gate

import (
	"errors"
	"testing"
	"time"

	"github.com/psalmeida/organregistry/internal/app/system/passcode"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndVerify(t *testing.T) {
	g := New(testKey, time.Minute)

	ch, err := g.Issue(ActionDeleteOrgan)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(ch.Hint) != passcode.HintLength {
		t.Fatalf("hint length = %d, want %d", len(ch.Hint), passcode.HintLength)
	}
	if ch.Token == "" {
		t.Fatal("expected a non-empty token")
	}

	code := passcode.ExpectedCode(ch.Hint)
	if err := g.Verify(ActionDeleteOrgan, ch.Token, code); err != nil {
		t.Errorf("Verify with correct code: %v", err)
	}
}

func TestVerify_WrongCode(t *testing.T) {
	g := New(testKey, time.Minute)

	ch, err := g.Issue(ActionViewHistory)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	wrong := "0000"
	if passcode.ExpectedCode(ch.Hint) == wrong {
		wrong = "1111"
	}
	if err := g.Verify(ActionViewHistory, ch.Token, wrong); !errors.Is(err, ErrCodeMismatch) {
		t.Errorf("got %v, want ErrCodeMismatch", err)
	}
}

func TestVerify_WrongAction(t *testing.T) {
	g := New(testKey, time.Minute)

	ch, err := g.Issue(ActionDeleteOrgan)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	code := passcode.ExpectedCode(ch.Hint)
	if err := g.Verify(ActionDeleteMaintenance, ch.Token, code); !errors.Is(err, ErrBadToken) {
		t.Errorf("got %v, want ErrBadToken", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	g := New(testKey, time.Minute)

	ch, err := g.Issue(ActionEditOrgan)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	code := passcode.ExpectedCode(ch.Hint)
	if err := g.Verify(ActionEditOrgan, ch.Token+"x", code); !errors.Is(err, ErrBadToken) {
		t.Errorf("got %v, want ErrBadToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	g := New(testKey, time.Minute)

	issued := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return issued }

	ch, err := g.Issue(ActionDeleteOrgan)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	g.now = func() time.Time { return issued.Add(2 * time.Minute) }

	code := passcode.ExpectedCode(ch.Hint)
	if err := g.Verify(ActionDeleteOrgan, ch.Token, code); !errors.Is(err, ErrExpired) {
		t.Errorf("got %v, want ErrExpired", err)
	}
}

func TestVerify_HintChangesPerChallenge(t *testing.T) {
	g := New(testKey, time.Minute)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ch, err := g.Issue(ActionDeleteOrgan)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		seen[ch.Hint] = true
	}
	if len(seen) < 2 {
		t.Error("expected hints to vary across challenges")
	}
}
