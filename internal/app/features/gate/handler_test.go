package gate_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/features/gate"
	sysgate "github.com/psalmeida/organregistry/internal/app/system/gate"
	"github.com/psalmeida/organregistry/internal/app/system/passcode"
	"github.com/psalmeida/organregistry/internal/app/system/session"
)

var gateKey = []byte("0123456789abcdef0123456789abcdef")

func newHandler() *gate.Handler {
	return gate.NewHandler(sysgate.New(gateKey, time.Minute), zap.NewNop())
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestServeChallenge(t *testing.T) {
	h := newHandler()

	rec := postJSON(t, h.ServeChallenge, `{"type":"organ","mode":"delete","id":"organ-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var ch sysgate.Challenge
	if err := json.Unmarshal(rec.Body.Bytes(), &ch); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(ch.Hint) != passcode.HintLength || ch.Token == "" {
		t.Errorf("challenge = %+v", ch)
	}
}

func TestServeChallenge_AllGatedActions(t *testing.T) {
	h := newHandler()

	// Every gated action must be issuable, maintenance edits included.
	pairs := []struct{ typ, mode string }{
		{"organ", "edit"},
		{"organ", "delete"},
		{"maintenance", "edit"},
		{"maintenance", "delete"},
		{"history", "view"},
	}
	for _, p := range pairs {
		t.Run(p.typ+"/"+p.mode, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"type": p.typ, "mode": p.mode})
			rec := postJSON(t, h.ServeChallenge, string(body))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
			}

			var ch sysgate.Challenge
			if err := json.Unmarshal(rec.Body.Bytes(), &ch); err != nil {
				t.Fatalf("parse response: %v", err)
			}
			if ch.Hint == "" || ch.Token == "" {
				t.Errorf("challenge = %+v", ch)
			}
		})
	}
}

func TestServeChallenge_UnknownAction(t *testing.T) {
	h := newHandler()

	rec := postJSON(t, h.ServeChallenge, `{"type":"organ","mode":"view"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeAuthorizeHistory_WrongCode(t *testing.T) {
	h := newHandler()

	rec := postJSON(t, h.ServeChallenge, `{"type":"history","mode":"view"}`)
	var ch sysgate.Challenge
	if err := json.Unmarshal(rec.Body.Bytes(), &ch); err != nil {
		t.Fatalf("parse challenge: %v", err)
	}

	wrong := "0000"
	if passcode.ExpectedCode(ch.Hint) == wrong {
		wrong = "1111"
	}

	body, _ := json.Marshal(map[string]string{"token": ch.Token, "code": wrong})
	rec = postJSON(t, h.ServeAuthorizeHistory, string(body))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	var denial struct {
		Error             string             `json:"error"`
		Challenge         *sysgate.Challenge `json:"challenge"`
		RetryAfterSeconds int                `json:"retry_after_seconds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &denial); err != nil {
		t.Fatalf("parse denial: %v", err)
	}
	if denial.Challenge == nil || denial.Challenge.Token == ch.Token {
		t.Error("expected a fresh challenge in the denial response")
	}
	if denial.RetryAfterSeconds != gate.RetryAfterSeconds {
		t.Errorf("retry_after_seconds = %d, want %d", denial.RetryAfterSeconds, gate.RetryAfterSeconds)
	}
}

func TestServeAuthorizeHistory_Success(t *testing.T) {
	prev := session.Store
	t.Cleanup(func() { session.Store = prev })
	if err := session.Init("0123456789abcdef0123456789abcdef", session.DefaultName, "", false, zap.NewNop()); err != nil {
		t.Fatalf("session.Init: %v", err)
	}

	h := newHandler()

	rec := postJSON(t, h.ServeChallenge, `{"type":"history","mode":"view"}`)
	var ch sysgate.Challenge
	if err := json.Unmarshal(rec.Body.Bytes(), &ch); err != nil {
		t.Fatalf("parse challenge: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"token": ch.Token,
		"code":  passcode.ExpectedCode(ch.Hint),
	})
	rec = postJSON(t, h.ServeAuthorizeHistory, string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	// Status endpoint sees the flag via the session cookie.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	statusRec := httptest.NewRecorder()
	h.ServeHistoryStatus(statusRec, req)

	var status struct {
		Authorized bool `json:"authorized"`
	}
	if err := json.Unmarshal(statusRec.Body.Bytes(), &status); err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if !status.Authorized {
		t.Error("expected authorized=true after passing the challenge")
	}
}

func TestServeHistoryStatus_Default(t *testing.T) {
	prev := session.Store
	t.Cleanup(func() { session.Store = prev })
	if err := session.Init("0123456789abcdef0123456789abcdef", session.DefaultName, "", false, zap.NewNop()); err != nil {
		t.Fatalf("session.Init: %v", err)
	}

	h := newHandler()
	rec := httptest.NewRecorder()
	h.ServeHistoryStatus(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var status struct {
		Authorized bool `json:"authorized"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if status.Authorized {
		t.Error("fresh session must not be authorized")
	}
}
