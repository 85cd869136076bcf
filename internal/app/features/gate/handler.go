// Package gate exposes the passcode challenge endpoints. Issuing and
// verifying challenges is handled by system/gate; this package is the HTTP
// surface plus the session-scoped history authorization.
package gate

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	sysgate "github.com/psalmeida/organregistry/internal/app/system/gate"
	"github.com/psalmeida/organregistry/internal/app/system/httpjson"
	"github.com/psalmeida/organregistry/internal/app/system/passcode"
	"github.com/psalmeida/organregistry/internal/app/system/session"
)

// RetryAfterSeconds is how long the client keeps a mismatch message on
// screen before re-prompting with the fresh hint.
const RetryAfterSeconds = 2

// Handler serves challenge issuance and history authorization.
type Handler struct {
	Gate *sysgate.Gate
	Log  *zap.Logger
	errs *httpjson.ErrorLogger
}

// NewHandler constructs a gate Handler.
func NewHandler(g *sysgate.Gate, logger *zap.Logger) *Handler {
	return &Handler{Gate: g, Log: logger, errs: httpjson.NewErrorLogger(logger)}
}

type challengeRequest struct {
	Type string `json:"type"` // organ | maintenance | history
	Mode string `json:"mode"` // edit | delete | view
	ID   string `json:"id,omitempty"`
}

// action maps a client challenge request onto a gate action constant.
func action(typ, mode string) (string, bool) {
	switch {
	case typ == "organ" && mode == "delete":
		return sysgate.ActionDeleteOrgan, true
	case typ == "organ" && mode == "edit":
		return sysgate.ActionEditOrgan, true
	case typ == "maintenance" && mode == "delete":
		return sysgate.ActionDeleteMaintenance, true
	case typ == "maintenance" && mode == "edit":
		return sysgate.ActionEditMaintenance, true
	case typ == "history" && mode == "view":
		return sysgate.ActionViewHistory, true
	}
	return "", false
}

// ServeChallenge handles POST /gate/challenge: issues a hint + signed token
// for the requested action. Every call produces a fresh hint.
func (h *Handler) ServeChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	act, ok := action(req.Type, req.Mode)
	if !ok {
		httpjson.BadRequest(w, "unknown challenge type or mode")
		return
	}

	ch, err := h.Gate.Issue(act)
	if err != nil {
		h.errs.LogServerError(w, r, "issue gate challenge failed", err, "Could not create the confirmation challenge. Try again.")
		return
	}
	httpjson.OK(w, ch)
}

type verifyRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// denialResponse carries a fresh challenge alongside the denial, so the
// client can re-prompt after the display delay without another round trip.
type denialResponse struct {
	Error             string             `json:"error"`
	Challenge         *sysgate.Challenge `json:"challenge,omitempty"`
	RetryAfterSeconds int                `json:"retry_after_seconds"`
}

// Deny writes the 403 mismatch response with a rotated challenge for the
// same action. Used here and by the mutating endpoints in other features.
func Deny(w http.ResponseWriter, g *sysgate.Gate, act string, verr error) {
	msg := "Incorrect code."
	if errors.Is(verr, sysgate.ErrExpired) {
		msg = "The challenge expired. A new code hint was generated."
	} else if errors.Is(verr, sysgate.ErrBadToken) {
		msg = "Invalid challenge. A new code hint was generated."
	}

	resp := denialResponse{Error: msg, RetryAfterSeconds: RetryAfterSeconds}
	if fresh, err := g.Issue(act); err == nil {
		resp.Challenge = &fresh
	}
	httpjson.Write(w, http.StatusForbidden, resp)
}

// VerifyRequest checks the token/code pair from an already-decoded request
// against the action. On failure it writes the denial response and returns
// false; the caller must stop.
func VerifyRequest(w http.ResponseWriter, g *sysgate.Gate, act, token, code string) bool {
	if err := g.Verify(act, token, passcode.NormalizeInput(code)); err != nil {
		Deny(w, g, act, err)
		return false
	}
	return true
}

// ServeAuthorizeHistory handles POST /gate/history: verifies the challenge
// and, on success, marks the session as history-authorized until it expires.
func (h *Handler) ServeAuthorizeHistory(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	if !VerifyRequest(w, h.Gate, sysgate.ActionViewHistory, req.Token, req.Code) {
		return
	}

	if err := session.MarkHistoryAuthorized(w, r); err != nil {
		h.errs.LogServerError(w, r, "mark history authorized failed", err, "Could not record the authorization. Try again.")
		return
	}
	httpjson.OK(w, map[string]bool{"authorized": true})
}

// ServeHistoryStatus handles GET /gate/history.
func (h *Handler) ServeHistoryStatus(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, map[string]bool{"authorized": session.HistoryAuthorized(r)})
}
