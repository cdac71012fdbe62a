// Package session keeps the server side state of logged in browser sessions.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/config"
)

// sessionIDBytes gives 256 bit session ids.
const sessionIDBytes = 32

var (
	// ErrNoSession is returned when a request carries no valid session.
	ErrNoSession = errors.New("no session")

	// ErrStorageNil is returned if the manager was created without storage.
	ErrStorageNil = errors.New("session storage is nil")
)

// Storage is the key value store holding session data.
// The gofiber storage drivers and GormStorage implement it.
// Get returns nil without error for unknown or expired keys.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Data represents the session data structure.
type Data struct {
	UserID   uint64
	Username string
}

// Manager creates, reads and destroys sessions bound to a cookie.
type Manager struct {
	storage    Storage
	cookieName string
	expiry     time.Duration
	secure     bool
}

// NewManager creates a session manager. Cookies are marked secure unless devMode is set.
func NewManager(storage Storage, cfg config.Session, devMode bool) (*Manager, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	return &Manager{
		storage:    storage,
		cookieName: cfg.CookieName,
		expiry:     cfg.ExpiryTime,
		secure:     !devMode,
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Create stores data under a new session id and sets the session cookie.
func (m *Manager) Create(c fiber.Ctx, data Data) error {
	sessionID, err := m.Issue(data)
	if err != nil {
		return err
	}

	c.Cookie(m.cookie(sessionID, int(m.expiry.Seconds())))

	return nil
}

// Issue stores data under a new session id and returns the id.
func (m *Manager) Issue(data Data) (string, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	if err = m.storage.Set(sessionID, out, m.expiry); err != nil {
		return "", fmt.Errorf("failed to write session: %w", err)
	}

	return sessionID, nil
}

// Read returns the session data of the request.
func (m *Manager) Read(c fiber.Ctx) (*Data, error) {
	sessionID := c.Cookies(m.cookieName)
	if sessionID == "" {
		return nil, ErrNoSession
	}

	raw, err := m.storage.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	data := new(Data)
	if err = json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if data.UserID == 0 {
		return nil, ErrNoSession
	}

	return data, nil
}

// Destroy deletes the session of the request and clears the cookie.
func (m *Manager) Destroy(c fiber.Ctx) error {
	var err error

	if sessionID := c.Cookies(m.cookieName); sessionID != "" {
		if errDelete := m.storage.Delete(sessionID); errDelete != nil {
			err = fmt.Errorf("failed to delete session: %w", errDelete)
		}
	}

	c.Cookie(m.cookie("", -1))

	return err
}

func (m *Manager) cookie(value string, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}
