package telemetry

import (
	"sync"
	"time"

	"github.com/keystone-go/keystone/pkg/userconfig"
)

const (
	keyNotified = "telemetry.notified"
	keyDisabled = "telemetry.disabled"
	keyDeviceID = "telemetry.deviceId"
	keySalt     = "telemetry.salt"
)

// state is the process-wide view of the persisted telemetry settings. It is
// read from the store once and then served from memory; every mutation is
// written through immediately.
type state struct {
	store userconfig.Store

	mu       sync.Mutex
	notified string
	disabled bool
	deviceID string
	salt     string
}

func loadState(store userconfig.Store) *state {
	return &state{
		store:    store,
		notified: readString(store, keyNotified),
		disabled: readBool(store, keyDisabled),
		deviceID: readString(store, keyDeviceID),
		salt:     readString(store, keySalt),
	}
}

// readString tolerates values of the wrong type, treating them as absent.
func readString(store userconfig.Store, key string) string {
	v, ok := store.Get(key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

func readBool(store userconfig.Store, key string) bool {
	v, ok := store.Get(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (s *state) isDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

func (s *state) setDisabled(disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = disabled
	return s.store.Set(keyDisabled, disabled)
}

func (s *state) notifiedAt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified
}

// markNotified returns false if the notice was already recorded. The cache is
// updated even when persisting fails.
func (s *state) markNotified(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notified != "" {
		return false, nil
	}
	s.notified = now.UTC().Format(time.RFC3339)
	return true, s.store.Set(keyNotified, s.notified)
}

// ensure returns the cached value of key, generating and persisting it if
// missing. A persistence failure is reported alongside the usable value.
func (s *state) ensure(key string, field *string, generate func() (string, error)) (value string, persistErr, genErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *field != "" {
		return *field, nil, nil
	}
	v, err := generate()
	if err != nil {
		return "", nil, err
	}
	*field = v
	return v, s.store.Set(key, v), nil
}

func (s *state) snapshot() (notified, deviceID, salt string, disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified, s.deviceID, s.salt, s.disabled
}

// reset forgets the identity and the notice so the next report behaves like
// a first run. The opt-out flag is kept.
func (s *state) reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified, s.deviceID, s.salt = "", "", ""
	for _, key := range []string{keyNotified, keyDeviceID, keySalt} {
		if err := s.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
