package keys

import (
	"fmt"
	"sync"

	"github.com/vizchain/viz-go/operations"
)

// NotFoundError is returned when the ring holds no key for an (account,
// role) pair.
type NotFoundError struct {
	Account string
	Role    operations.KeyRole
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("keys: no %s key for account %q", e.Role, e.Account)
}

// Ring is an in-memory key store keyed by account and role. It satisfies the
// client's KeyStore interface and is safe for concurrent use.
type Ring struct {
	mu   sync.RWMutex
	keys map[string]map[operations.KeyRole]string
}

func NewRing() *Ring {
	return &Ring{keys: make(map[string]map[operations.KeyRole]string)}
}

// AddWIF registers a signing key for an account role. The WIF is validated
// before it is stored.
func (r *Ring) AddWIF(account string, role operations.KeyRole, wif string) error {
	if _, err := DecodeWIF(wif); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keys[account] == nil {
		r.keys[account] = make(map[operations.KeyRole]string)
	}
	r.keys[account][role] = wif
	return nil
}

// Resolve returns the WIF signing key for an (account, role) pair.
func (r *Ring) Resolve(account string, role operations.KeyRole) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wif, ok := r.keys[account][role]
	if !ok {
		return "", &NotFoundError{Account: account, Role: role}
	}
	return wif, nil
}
