package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie issued to clients.
	CookieName = "hearth_session"

	userIDKey = "userID"
	flashKey  = "flash"
)

// NewStore builds the fiber session store. A nil storage falls back to
// fiber's built-in in-memory storage (used in tests and redis-less dev).
func NewStore(storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
}

// Login binds the given user to the request's session.
func Login(c *fiber.Ctx, store *session.Store, userID uint) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(userIDKey, userID)
	return sess.Save()
}

// Logout destroys the request's session unconditionally.
func Logout(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the authenticated user's id for this request, or false for
// anonymous clients.
func UserID(c *fiber.Ctx, store *session.Store) (uint, bool) {
	sess, err := store.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get(userIDKey).(uint)
	return id, ok && id != 0
}

// Flash queues a one-shot message shown on the next rendered page.
func Flash(c *fiber.Ctx, store *session.Store, msg string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(flashKey, msg)
	return sess.Save()
}

// PopFlash returns the queued flash message, clearing it.
func PopFlash(c *fiber.Ctx, store *session.Store) string {
	sess, err := store.Get(c)
	if err != nil {
		return ""
	}
	msg, ok := sess.Get(flashKey).(string)
	if !ok || msg == "" {
		return ""
	}
	sess.Delete(flashKey)
	_ = sess.Save()
	return msg
}
