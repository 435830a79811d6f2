package session

import (
	"time"

	"github.com/futig/context-engine/internal/usecase/suggest"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Registry maps session ids to live pipeline controllers. Sessions are
// TTL-evicted so abandoned input sessions get reclaimed; eviction (or explicit
// deletion) tears the controller down.
type Registry struct {
	cache   *gocache.Cache
	factory func() *suggest.Controller
	logger  *zap.Logger
}

func NewRegistry(cfg RegistryConfig, factory func() *suggest.Controller, logger *zap.Logger) *Registry {
	cache := gocache.New(cfg.TTL, cfg.CleanupInterval)

	r := &Registry{
		cache:   cache,
		factory: factory,
		logger:  logger,
	}

	cache.OnEvicted(func(id string, value interface{}) {
		if ctrl, ok := value.(*suggest.Controller); ok {
			logger.Info("session evicted", zap.String("session_id", id))
			ctrl.Close()
		}
	})

	return r
}

type RegistryConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Create starts a new pipeline session and returns its id.
func (r *Registry) Create() string {
	id := uuid.New().String()
	r.cache.Set(id, r.factory(), gocache.DefaultExpiration)
	r.logger.Info("session created", zap.String("session_id", id))
	return id
}

// Get returns the controller for a session and extends its TTL.
func (r *Registry) Get(id string) (*suggest.Controller, bool) {
	value, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	ctrl := value.(*suggest.Controller)
	// Any access keeps the session alive.
	r.cache.Set(id, ctrl, gocache.DefaultExpiration)
	return ctrl, true
}

// Delete tears a session down. Returns false for unknown ids.
func (r *Registry) Delete(id string) bool {
	if _, ok := r.cache.Get(id); !ok {
		return false
	}
	// Delete fires OnEvicted, which closes the controller.
	r.cache.Delete(id)
	return true
}

// CloseAll tears down every live session; used on shutdown.
func (r *Registry) CloseAll() {
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}
