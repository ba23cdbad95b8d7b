package basetype

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry is the process-wide type-OID cache: a per-context table
// mapping TypeTag to its Adapter, populated once and read-only thereafter.
// An LRU (bounded at 64 entries: the ten built-ins plus room for custom
// types) is used in place of a
// bare map so a host that registers many custom base types still gets
// bounded memory.
type Registry struct {
	mu    sync.RWMutex
	cache *lru.Cache[TypeTag, Adapter]
}

// NewRegistry builds a Registry preloaded with the ten built-in adapters.
func NewRegistry() *Registry {
	c, err := lru.New[TypeTag, Adapter](64)
	if err != nil {
		// lru.New only fails for a non-positive size; 64 is a compile-time
		// constant so this can never happen.
		panic(err)
	}
	r := &Registry{cache: c}
	for _, a := range []Adapter{
		boolAdapter{}, int4Adapter{}, float8Adapter{}, textAdapter{},
		geomPointAdapter{}, geogPointAdapter{}, nPointAdapter{},
		double2Adapter{}, double3Adapter{}, double4Adapter{},
	} {
		r.cache.Add(a.Tag(), a)
	}
	return r
}

// Register adds or replaces the adapter for tag, for hosts extending the
// base-type set beyond the built-ins.
func (r *Registry) Register(tag TypeTag, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Add(tag, a)
}

// Adapter returns the adapter registered for tag.
func (r *Registry) Adapter(tag TypeTag) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache.Get(tag)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the lazily-initialized, read-only-after-init process
// registry. Prefer NewRegistry in tests or multi-tenant hosts that need an
// isolated table.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = NewRegistry() })
	return defaultReg
}

// AsInterpolator type-asserts a into Interpolator, reporting ok=false for a
// non-continuous base type's adapter.
func AsInterpolator(a Adapter) (Interpolator, bool) {
	i, ok := a.(Interpolator)
	return i, ok
}

// AsSpatial type-asserts a into SpatialAdapter.
func AsSpatial(a Adapter) (SpatialAdapter, bool) {
	s, ok := a.(SpatialAdapter)
	return s, ok
}
