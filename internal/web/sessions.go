package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName   = "vendorhub-session"
	advisoryKey   = "advisories"
	clientIDValue = "client_id"
)

// SessionStore keeps per-browser state in a signed cookie: pending advisories
// shown once on the next page load, and a stable client id.
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(secret string, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

func (s *SessionStore) session(r *http.Request) *sessions.Session {
	// Get returns a fresh session alongside the error when the cookie cannot
	// be decoded, e.g. after a secret rotation.
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		log.Printf("Discarding unreadable session cookie: %v", err)
	}
	return session
}

// AddAdvisory queues a message for the next Advisories call. Must be called
// before the response body is written.
func (s *SessionStore) AddAdvisory(w http.ResponseWriter, r *http.Request, message string) {
	session := s.session(r)
	session.AddFlash(message, advisoryKey)
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save advisory: %v", err)
	}
}

// ClientID returns the id of the browser, assigning one on first use.
func (s *SessionStore) ClientID(w http.ResponseWriter, r *http.Request) string {
	session := s.session(r)
	if id, ok := session.Values[clientIDValue].(string); ok && id != "" {
		return id
	}
	id := uuid.New().String()
	session.Values[clientIDValue] = id
	if err := session.Save(r, w); err != nil {
		log.Printf("Failed to save client id: %v", err)
	}
	return id
}

// Advisories pops every pending advisory.
func (s *SessionStore) Advisories(w http.ResponseWriter, r *http.Request) []string {
	session := s.session(r)
	flashes := session.Flashes(advisoryKey)
	messages := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			log.Printf("Failed to clear advisories: %v", err)
		}
	}
	return messages
}

func (s *SessionStore) HandleAdvisories(w http.ResponseWriter, r *http.Request) {
	messages := s.Advisories(w, r)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"advisories": messages})
}
