// Package auth implements login handling for the userledger service:
// the failed-attempt lockout guard, credential checking, password hashing,
// and access token issuance.
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
)

// Attempt tracks consecutive failed logins for one email.
type Attempt struct {
	Count       int
	LastFailure time.Time
}

// LockoutStore holds per-email attempt records. Implementations must be
// safe for concurrent use.
type LockoutStore interface {
	Get(email string) (Attempt, bool)
	Set(email string, attempt Attempt)
	Delete(email string)
}

// MemoryLockoutStore is the in-process LockoutStore. State does not survive
// restarts and is not shared between instances.
type MemoryLockoutStore struct {
	mu       sync.Mutex
	attempts map[string]Attempt
}

// NewMemoryLockoutStore creates an empty in-memory lockout store.
func NewMemoryLockoutStore() *MemoryLockoutStore {
	return &MemoryLockoutStore{attempts: make(map[string]Attempt)}
}

func (s *MemoryLockoutStore) Get(email string) (Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[email]
	return a, ok
}

func (s *MemoryLockoutStore) Set(email string, attempt Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[email] = attempt
}

func (s *MemoryLockoutStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, email)
}

// Authenticator checks credentials and, on success, returns the login
// payload. Wrong email or password must surface as KindInvalidCredentials;
// any other error is treated as a collaborator failure and is not counted
// against the lockout threshold.
type Authenticator interface {
	CheckCredentials(ctx context.Context, email, password string) (*Session, error)
}

// Session is the payload of a successful login.
type Session struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Guard blocks authentication attempts for an email after too many
// consecutive failures. The window is measured from the most recent
// failure, so each new failure while over the threshold extends the block.
type Guard struct {
	store         LockoutStore
	authenticator Authenticator
	maxAttempts   int
	window        time.Duration

	// mu serializes counter bookkeeping so concurrent failures for the
	// same email never lose an increment. The credential check itself
	// runs outside the lock.
	mu  sync.Mutex
	now func() time.Time
}

// NewGuard creates a lockout guard around the given authenticator.
func NewGuard(store LockoutStore, authenticator Authenticator, maxAttempts int, window time.Duration) *Guard {
	return &Guard{
		store:         store,
		authenticator: authenticator,
		maxAttempts:   maxAttempts,
		window:        window,
		now:           time.Now,
	}
}

// AttemptLogin applies the lockout policy around a credential check.
// While an email is over the threshold and inside the window, the
// authenticator is not consulted at all.
func (g *Guard) AttemptLogin(ctx context.Context, email, password string) (*Session, error) {
	// Emails are compared case-insensitively at login, so the counter
	// key is normalized too; otherwise case variants would each get
	// their own budget of attempts.
	key := strings.ToLower(strings.TrimSpace(email))

	if err := g.checkBlocked(key); err != nil {
		return nil, err
	}

	session, err := g.authenticator.CheckCredentials(ctx, email, password)
	if err != nil {
		if pkgerrors.IsKind(err, pkgerrors.KindInvalidCredentials) {
			g.recordFailure(key)
		}
		return nil, err
	}

	// One successful login clears the counter unconditionally.
	g.mu.Lock()
	g.store.Delete(key)
	g.mu.Unlock()

	return session, nil
}

// checkBlocked rejects the attempt while the lockout window is active and
// resets the record once it has elapsed.
func (g *Guard) checkBlocked(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	record, ok := g.store.Get(key)
	if !ok || record.Count < g.maxAttempts {
		return nil
	}

	if g.now().Sub(record.LastFailure) < g.window {
		return pkgerrors.NewRateLimited("Too many failed login attempts. Please try again later.")
	}

	g.store.Set(key, Attempt{Count: 0, LastFailure: g.now()})
	return nil
}

func (g *Guard) recordFailure(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	record, _ := g.store.Get(key)
	g.store.Set(key, Attempt{Count: record.Count + 1, LastFailure: g.now()})
}
