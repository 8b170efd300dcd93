// Package ioreg brokers access to the device registry: matching service
// classes, acquiring opaque kernel handles for them, and reading their
// property dictionaries. Handles move through a strict lifecycle
// (unacquired, acquired, released); the Handle type enforces it so that a
// released handle can never reach native code again.
package ioreg

import (
	"sync"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/logger"
)

// Ops is the narrow native surface the broker drives. The darwin
// implementation talks to the kernel; tests substitute a fake.
type Ops interface {
	// MatchingService resolves a service class name to a registry object
	// id. A zero id with a nil error means no such service exists.
	MatchingService(name string) (uint32, error)

	// Properties reads the full property dictionary of a registry object.
	Properties(id uint32) (map[string]any, error)

	// Parent returns the parent registry object in the service plane.
	Parent(id uint32) (uint32, error)

	// Release drops the kernel reference for a registry object.
	Release(id uint32)
}

// MatchDescriptor identifies a registry service class to acquire.
type MatchDescriptor struct {
	name string
}

// Match builds a descriptor for the named service class. Matching itself is
// cheap and infallible; existence is only checked at Acquire time.
func Match(name string) MatchDescriptor {
	return MatchDescriptor{name: name}
}

// Name returns the service class the descriptor matches.
func (m MatchDescriptor) Name() string {
	return m.name
}

// Broker acquires registry handles.
type Broker interface {
	Acquire(m MatchDescriptor) (*Handle, error)
}

type broker struct {
	ops Ops
}

// NewBroker returns a Broker over the system device registry.
func NewBroker() Broker {
	return &broker{ops: systemOps{}}
}

// NewBrokerWith returns a Broker over custom native operations.
func NewBrokerWith(ops Ops) Broker {
	return &broker{ops: ops}
}

func (b *broker) Acquire(m MatchDescriptor) (*Handle, error) {
	errFactory := errors.New()

	id, err := b.ops.MatchingService(m.name)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errFactory.WithData(ErrServiceNotFound, m.name)
	}

	logger.Debug().Str("service", m.name).Uint32("id", id).Msg("Registry handle acquired")

	return &Handle{id: id, name: m.name, ops: b.ops}, nil
}

// Handle is an exclusively owned reference to an acquired registry object.
// All operations after Release return ErrHandleReleased instead of touching
// native state. Release is idempotent.
type Handle struct {
	mu       sync.Mutex
	id       uint32
	name     string
	ops      Ops
	released bool
}

// Service returns the service class name the handle was acquired for.
func (h *Handle) Service() string {
	return h.name
}

// Released reports whether the handle has been released.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Properties reads the object's property dictionary into an immutable
// snapshot. The snapshot has its own Release and must not be used after the
// handle it came from is released.
func (h *Handle) Properties() (*PropertySnapshot, error) {
	errFactory := errors.New()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return nil, errFactory.WithData(ErrHandleReleased, h.name)
	}

	values, err := h.ops.Properties(h.id)
	if err != nil {
		return nil, err
	}

	return &PropertySnapshot{values: values, service: h.name}, nil
}

// Parent acquires the object's parent in the service plane as a new,
// independently owned handle.
func (h *Handle) Parent() (*Handle, error) {
	errFactory := errors.New()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return nil, errFactory.WithData(ErrHandleReleased, h.name)
	}

	parent, err := h.ops.Parent(h.id)
	if err != nil {
		return nil, err
	}
	if parent == 0 {
		return nil, errFactory.WithData(ErrParentFailed, h.name)
	}

	return &Handle{id: parent, name: h.name + "/parent", ops: h.ops}, nil
}

// Release drops the native reference. Safe to call more than once; only the
// first call reaches the kernel.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true
	h.ops.Release(h.id)

	logger.Debug().Str("service", h.name).Uint32("id", h.id).Msg("Registry handle released")
}

// PropertySnapshot is a read-only view of a registry object's properties,
// captured at one point in time.
type PropertySnapshot struct {
	mu       sync.Mutex
	values   map[string]any
	service  string
	released bool
}

// Number returns a numeric property. ok is false when the property is
// absent, non-numeric, or the snapshot is released.
func (s *PropertySnapshot) Number(key string) (float64, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Bool returns a boolean property.
func (s *PropertySnapshot) Bool(key string) (bool, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// String returns a string property.
func (s *PropertySnapshot) String(key string) (string, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Len returns the number of properties in the snapshot.
func (s *PropertySnapshot) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return 0
	}
	return len(s.values)
}

func (s *PropertySnapshot) lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Release invalidates the snapshot. Idempotent. Accessors on a released
// snapshot report every property as absent rather than returning stale data.
func (s *PropertySnapshot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = true
	s.values = nil
}
