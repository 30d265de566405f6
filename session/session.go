package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	// SessionName is the cookie carrying the session.
	SessionName = "warbler-session"

	currUserKey = "curr_user"
)

// Flash is a one-shot message shown on the next rendered page. Category maps
// to a styling class (success, danger, warning).
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Store wraps the cookie-backed session store.
type Store struct {
	store *sessions.CookieStore
}

// NewStore builds a cookie store signed with the secret key. Secure marks the
// cookie HTTPS-only, which stays off for local development.
func NewStore(secret []byte, secure bool) *Store {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: store}
}

func (s *Store) session(r *http.Request) *sessions.Session {
	// An undecodable cookie (e.g. rotated secret) yields a fresh session
	// alongside the error, which is all we need.
	sess, err := s.store.Get(r, SessionName)
	if err != nil {
		logrus.WithError(err).Debug("could not decode session cookie, starting fresh")
	}
	return sess
}

// LoginUser stores the user ID in the session.
func (s *Store) LoginUser(w http.ResponseWriter, r *http.Request, userID uint) error {
	sess := s.session(r)
	sess.Values[currUserKey] = userID
	return sess.Save(r, w)
}

// LogoutUser drops the user ID from the session, if present.
func (s *Store) LogoutUser(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	delete(sess.Values, currUserKey)
	return sess.Save(r, w)
}

// CurrentUserID returns the logged-in user's ID, if any.
func (s *Store) CurrentUserID(r *http.Request) (uint, bool) {
	id, ok := s.session(r).Values[currUserKey].(uint)
	return id, ok
}

// AddFlash queues a flash message for the next rendered page.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess := s.session(r)
	sess.AddFlash(Flash{Category: category, Message: message})
	if err := sess.Save(r, w); err != nil {
		logrus.WithError(err).Error("failed to save session while adding flash")
	}
}

// Flashes drains and returns the queued flash messages.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		logrus.WithError(err).Error("failed to save session while draining flashes")
	}

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
