package tokenstore

import "github.com/rxops/pharmacy-cli/internal/logger"

// Store selects between the durable backend and the in-memory fallback on
// every operation, satisfying the pharmapi.TokenStore contract: accessors
// never fail. Durable availability is probed per call because the host
// environment can revoke it at any time; fallback failures are swallowed
// and logged.
type Store struct {
	durable  *FileStore
	fallback *MemoryStore
	log      logger.Logger
}

// New creates a store persisting under dir, logging degradations to log.
func New(dir string, log logger.Logger) *Store {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Store{
		durable:  NewFileStore(dir),
		fallback: NewMemoryStore(),
		log:      log,
	}
}

func (s *Store) backend() interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
} {
	if s.durable.IsAvailable() {
		return s.durable
	}
	s.log.Debug("durable token storage unavailable, using in-memory fallback")
	return s.fallback
}

// Get returns the stored value, or "" when absent or unreadable.
func (s *Store) Get(key string) string {
	value, err := s.backend().Get(key)
	if err != nil {
		s.log.Warnf("token store read for %q failed: %v", key, err)
		value, _ = s.fallback.Get(key)
	}
	return value
}

// Set stores the value, degrading to the fallback on failure.
func (s *Store) Set(key, value string) {
	if err := s.backend().Set(key, value); err != nil {
		s.log.Warnf("token store write for %q failed: %v", key, err)
		_ = s.fallback.Set(key, value)
	}
}

// Remove deletes the key from both backends so a later availability flip
// cannot resurrect a torn-down credential.
func (s *Store) Remove(key string) {
	if err := s.backend().Remove(key); err != nil {
		s.log.Warnf("token store removal for %q failed: %v", key, err)
	}
	_ = s.fallback.Remove(key)
}
