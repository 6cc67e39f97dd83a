package daterange

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionKey is where the selected range lives in the user's session.
const SessionKey = "date_range"

// Store persists the selected range per browser session.
type Store struct {
	sessions *session.Store
	now      func() time.Time
}

func NewStore(sessions *session.Store) *Store {
	return &Store{sessions: sessions, now: time.Now}
}

// Load restores the session's range, defaulting to the current month.
func (s *Store) Load(c *fiber.Ctx) Range {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return DefaultFor(s.now())
	}
	raw, _ := sess.Get(SessionKey).(string)
	if raw == "" {
		return DefaultFor(s.now())
	}
	r, err := ParseKey(raw)
	if err != nil {
		return DefaultFor(s.now())
	}
	return r
}

// Save persists r immediately. It returns the previously stored range.
func (s *Store) Save(c *fiber.Ctx, r Range) (Range, error) {
	if err := r.Check(); err != nil {
		return Range{}, err
	}
	previous := s.Load(c)
	sess, err := s.sessions.Get(c)
	if err != nil {
		return previous, err
	}
	sess.Set(SessionKey, r.Key())
	return previous, sess.Save()
}
