package session

import (
	"crypto/sha256"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/securecookie"
)

// Actor roles carried inside the session payload.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// CookieName is the client-side cookie holding the encoded session.
const CookieName = "classwork_session"

// Session is the client-held state replayed on every request. It is stored as
// an encrypted, tamper-evident blob; the server keeps no copy and performs no
// revocation, so logout simply clears the client cookie.
type Session struct {
	Role        string    `json:"role"`
	ActorID     uint      `json:"actor_id"`
	ClassID     uint      `json:"class_id,omitempty"`
	DisplayName string    `json:"display_name"`
	IssuedAt    time.Time `json:"issued_at"`
}

// IsTeacher reports whether the session belongs to a teacher.
func (s Session) IsTeacher() bool {
	return s.Role == RoleTeacher
}

// IsStudent reports whether the session belongs to a student.
func (s Session) IsStudent() bool {
	return s.Role == RoleStudent
}

// Manager encodes and decodes session cookies. Confidentiality and integrity
// come from the securecookie codec (HMAC-SHA256 plus AES-CTR); any payload
// that fails to decode is treated as no session at all.
type Manager struct {
	codec  *securecookie.SecureCookie
	now    func() time.Time
	secure bool
}

// NewManager derives fixed-length hash and block keys from the configured
// secrets and builds the cookie codec. An empty blockKey falls back to the
// hash key so the cookie is always encrypted, not merely signed.
func NewManager(hashKey, blockKey string, secure bool) *Manager {
	if blockKey == "" {
		blockKey = hashKey
	}

	hash := sha256.Sum256([]byte(hashKey))
	block := sha256.Sum256([]byte(blockKey))

	codec := securecookie.New(hash[:], block[:])
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{codec: codec, now: time.Now, secure: secure}
}

// Establish writes the session cookie for the given actor.
func (m *Manager) Establish(c *fiber.Ctx, sess Session) error {
	if sess.IssuedAt.IsZero() {
		sess.IssuedAt = m.now().UTC()
	}

	encoded, err := m.codec.Encode(CookieName, sess)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// Read decodes the session cookie. Missing, tampered, or otherwise undecodable
// cookies yield (Session{}, false).
func (m *Manager) Read(c *fiber.Ctx) (Session, bool) {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return Session{}, false
	}

	var sess Session
	if err := m.codec.Decode(CookieName, raw, &sess); err != nil {
		return Session{}, false
	}

	if sess.Role != RoleTeacher && sess.Role != RoleStudent {
		return Session{}, false
	}

	return sess, true
}

// Clear expires the client's copy of the session.
func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  m.now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
