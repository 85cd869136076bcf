package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultName = "organregistry-session"

	visitorIDKey = "visitor_id"
	historyOKKey = "history_authorized"
)

// Store is initialised once via Init.
var Store *sessions.CookieStore

// name is the cookie name used for all sessions; configurable at Init.
var name = DefaultName

/*─────────────────────────────────────────────────────────────────────────────*
| Visitor helper                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// Visitor is the anonymous identity cached in the session and injected into
// r.Context(). There are no named accounts; every browser gets a visitor ID
// on first contact.
type Visitor struct {
	ID string
}

type ctxKey string

const currentVisitorKey ctxKey = "currentVisitor"

// CurrentVisitor returns the visitor & "found?" flag.
func CurrentVisitor(r *http.Request) (*Visitor, bool) {
	v, ok := r.Context().Value(currentVisitorKey).(*Visitor)
	return v, ok
}

// EnsureVisitor assigns an anonymous visitor ID on first contact and injects
// the visitor into context on every request. If the session store has not
// been initialized yet, it is a no-op.
func EnsureVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Store == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, _ := Store.Get(r, name)

		id := getString(sess, visitorIDKey)
		if id == "" {
			id = uuid.NewString()
			sess.Values[visitorIDKey] = id
			_ = sess.Save(r, w)
		}

		r = withVisitor(r, &Visitor{ID: id})
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| History authorization flag                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HistoryAuthorized reports whether this session has already passed the
// history passcode challenge. The flag lives for the session, so the
// challenge is asked once per visit, not once per report.
func HistoryAuthorized(r *http.Request) bool {
	if Store == nil {
		return false
	}
	sess, _ := Store.Get(r, name)
	ok, _ := sess.Values[historyOKKey].(bool)
	return ok
}

// MarkHistoryAuthorized records a passed history challenge on the session.
func MarkHistoryAuthorized(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, _ := Store.Get(r, name)
	sess.Values[historyOKKey] = true
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Initialisation                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// Init initializes the global session Store using the provided session key,
// cookie name and domain. The `secure` flag controls whether cookies are
// marked Secure and which SameSite mode is used.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func Init(sessionKey, cookieName, domain string, secure bool, logger *zap.Logger) error {
	if sessionKey == "" {
		return fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if cookieName != "" {
		name = cookieName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}

	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}

	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// helpers

func withVisitor(r *http.Request, v *Visitor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentVisitorKey, v))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
