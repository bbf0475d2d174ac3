package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/musicai/internal/shared"
)

// skewWindow forces a refresh before true expiry so in-flight requests don't
// race the credential's expiration.
const skewWindow = 60 * time.Second

// TokenSource acquires a service-level credential. Implemented by [Acquirer].
type TokenSource interface {
	ClientCredentials(ctx context.Context) (ServiceCredential, error)
}

// Guard owns the single live service credential and keeps it fresh under
// concurrent access.
//
// A read lock covers freshness checks; the write lock is held across the full
// re-check + exchange + store sequence, so at most one refresh network call is
// in flight per staleness event and no caller observes a torn credential. A
// failed exchange leaves the stale credential in place; the next call retries.
type Guard struct {
	source TokenSource
	now    func() time.Time

	mu   sync.RWMutex
	cred ServiceCredential
}

// NewGuard creates a Guard backed by the given token source.
//
// The guard is not usable until [Guard.Initialize] succeeds.
func NewGuard(source TokenSource) *Guard {
	return &Guard{
		source: source,
		now:    time.Now,
	}
}

// Initialize performs the first synchronous credential acquisition.
//
// If it fails, every subsequent [Guard.Credential] call retries the
// acquisition and fails with [shared.ErrCredentialUnavailable] until one
// succeeds.
func (g *Guard) Initialize(ctx context.Context) error {
	_, err := g.Credential(ctx)
	return err
}

// Valid reports whether the current credential is fresh. No side effects.
func (g *Guard) Valid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.validLocked()
}

// validLocked checks freshness. Callers must hold mu.
func (g *Guard) validLocked() bool {
	return g.cred.AccessToken != "" && g.now().Add(skewWindow).Before(g.cred.ExpiresAt)
}

// Credential returns a currently valid service credential, refreshing it if
// stale.
func (g *Guard) Credential(ctx context.Context) (ServiceCredential, error) {
	g.mu.RLock()
	if g.validLocked() {
		cred := g.cred
		g.mu.RUnlock()
		return cred, nil
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	// A concurrent caller may have refreshed while we waited for the lock.
	if g.validLocked() {
		return g.cred, nil
	}

	cred, err := g.source.ClientCredentials(ctx)
	if err != nil {
		return ServiceCredential{}, fmt.Errorf("%w: %v", shared.ErrCredentialUnavailable, err)
	}

	g.cred = cred
	return cred, nil
}
