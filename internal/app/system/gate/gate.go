// Package gate implements the passcode challenge that protects destructive
// and restricted actions.
//
// A challenge is a 4-digit hint plus a signed token binding that hint to an
// action and an issue time. The client derives the expected code from the
// hint and submits code + token; the server never stores challenge state.
package gate

import (
	"errors"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/psalmeida/organregistry/internal/app/system/passcode"
)

const tokenName = "gate-challenge"

// Actions a challenge can be bound to. A token issued for one action does
// not verify for another.
const (
	ActionDeleteOrgan       = "delete-organ"
	ActionDeleteMaintenance = "delete-maintenance"
	ActionEditOrgan         = "edit-organ"
	ActionEditMaintenance   = "edit-maintenance"
	ActionViewHistory       = "view-history"
)

var (
	// ErrCodeMismatch means the token was valid but the submitted code does
	// not match the hint. The caller issues a fresh challenge.
	ErrCodeMismatch = errors.New("gate: code does not match challenge")

	// ErrExpired means the token outlived its TTL.
	ErrExpired = errors.New("gate: challenge expired")

	// ErrBadToken means the token failed decoding or names another action.
	ErrBadToken = errors.New("gate: invalid challenge token")
)

// Challenge is what the client receives: the visible hint plus the opaque
// token it must echo back alongside the derived code.
type Challenge struct {
	Hint  string `json:"hint"`
	Token string `json:"token"`
}

type payload struct {
	Action   string `json:"a"`
	Hint     string `json:"h"`
	IssuedAt int64  `json:"t"`
}

// Gate issues and verifies passcode challenges. Safe for concurrent use.
type Gate struct {
	sc  *securecookie.SecureCookie
	ttl time.Duration
	now func() time.Time
}

// New creates a Gate signing tokens with key. The key must be 32 or 64
// bytes for HMAC-SHA256; shorter keys still work but weaken the signature.
func New(key []byte, ttl time.Duration) *Gate {
	sc := securecookie.New(key, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Gate{sc: sc, ttl: ttl, now: time.Now}
}

// Issue creates a fresh challenge for the given action.
func (g *Gate) Issue(action string) (Challenge, error) {
	p := payload{
		Action:   action,
		Hint:     passcode.GenerateHint(),
		IssuedAt: g.now().Unix(),
	}
	tok, err := g.sc.Encode(tokenName, p)
	if err != nil {
		return Challenge{}, err
	}
	return Challenge{Hint: p.Hint, Token: tok}, nil
}

// Verify checks a submitted code against the challenge token for action.
// On ErrCodeMismatch the caller should issue a fresh challenge so the hint
// changes on every failed attempt.
func (g *Gate) Verify(action, token, code string) error {
	var p payload
	if err := g.sc.Decode(tokenName, token, &p); err != nil {
		return ErrBadToken
	}
	if p.Action != action {
		return ErrBadToken
	}
	if g.now().Sub(time.Unix(p.IssuedAt, 0)) > g.ttl {
		return ErrExpired
	}
	if !passcode.Matches(p.Hint, code) {
		return ErrCodeMismatch
	}
	return nil
}
