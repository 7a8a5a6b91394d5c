package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out session-scoped carts to HTTP handlers, keyed by an
// opaque token the client echoes back on each request.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// Get returns the cart for a session token, if one exists.
func (r *Registry) Get(token string) (*Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[token]
	return c, ok
}

// GetOrCreate returns the cart for the token, creating a fresh session with
// a new token when the given one is blank or unknown.
func (r *Registry) GetOrCreate(token string) (string, *Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token != "" {
		if c, ok := r.carts[token]; ok {
			return token, c
		}
	}

	token = uuid.New().String()
	c := New()
	r.carts[token] = c
	return token, c
}

// Drop destroys a session's cart, e.g. after successful order placement.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, token)
}
