// Package otp implements the in-memory one-time password store. Codes are
// process-local and non-persistent: a restart invalidates every outstanding
// code. Records are evicted lazily on lookup; there is no background sweeper.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const codeRange = 900000 // codes are drawn from [100000, 999999]

type record struct {
	codeHash  []byte
	expiresAt time.Time
}

// Store issues and verifies single-use numeric codes keyed by identifier
// (phone number or email). At most one live code exists per identifier;
// generating a new one overwrites the previous. Codes are kept bcrypt-hashed.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	records map[string]record

	now func() time.Time // overridable in tests
}

// NewStore creates a Store whose codes expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		records: make(map[string]record),
		now:     time.Now,
	}
}

// Generate creates a fresh 6-digit code for the identifier, replacing any
// live code, and returns it. The caller is responsible for delivering the
// code out of band.
func (s *Store) Generate(identifier string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("failed to draw otp code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp code: %w", err)
	}

	s.mu.Lock()
	s.records[identifier] = record{codeHash: hash, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return code, nil
}

// Verify checks the submitted code. It returns false when no code exists for
// the identifier, the code has expired, or it does not match. A successful
// verification consumes the record under the store lock, so a second attempt
// with the same code always fails.
func (s *Store) Verify(identifier, submitted string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identifier]
	if !ok {
		return false
	}

	if s.now().After(rec.expiresAt) {
		delete(s.records, identifier)
		return false
	}

	if bcrypt.CompareHashAndPassword(rec.codeHash, []byte(submitted)) != nil {
		return false
	}

	delete(s.records, identifier)
	return true
}
