// Package handle implements the opaque object store the FFI-shaped
// boundary between issuer/prover/verifier operations and their callers is
// built on. Objects (schemas, credential definitions, credentials,
// presentations, and so on) are never passed by value across that
// boundary; they are stored here and referenced by a Handle.
package handle

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"anoncreds/pkg/anoncreds/apperr"
)

// Handle identifies an object held in the store. The zero value is the
// "none" sentinel and never names a live object.
type Handle uint64

// None is the sentinel handle value.
const None Handle = 0

func (h Handle) IsNone() bool {
	return h == None
}

var counter uint64

func nextHandle() Handle {
	return Handle(atomic.AddUint64(&counter, 1))
}

type entry struct {
	typeName string
	obj      any
}

// Store is a concurrency-safe, type-tagged object table. A *Store is
// typically a package-level singleton (see Default), but tests may
// construct private ones for isolation.
type Store struct {
	mu      sync.RWMutex
	objects map[Handle]entry
}

func NewStore() *Store {
	return &Store{objects: make(map[Handle]entry)}
}

// Default is the process-wide store; Handle.String looks up type tags in
// it.
var Default = NewStore()

// Create stores obj under a freshly minted handle tagged with typeName.
// typeName is normally the dynamic type's name, supplied explicitly so
// callers control exactly what a type-tag mismatch message reports;
// TypeNameOf returns it later.
func Create(s *Store, typeName string, obj any) Handle {
	h := nextHandle()
	s.mu.Lock()
	s.objects[h] = entry{typeName: typeName, obj: obj}
	s.mu.Unlock()
	return h
}

// Load returns the object stored under h, failing if h is None, unknown,
// or tagged with a type other than wantType.
func Load[T any](s *Store, h Handle, wantType string) (T, error) {
	var zero T
	if h.IsNone() {
		return zero, apperr.New(apperr.Input, "handle is none")
	}
	s.mu.RLock()
	e, ok := s.objects[h]
	s.mu.RUnlock()
	if !ok {
		return zero, apperr.New(apperr.InvalidState, "handle %s does not exist", h)
	}
	if e.typeName != wantType {
		return zero, apperr.New(apperr.Input, "handle %s holds %s, not %s", h, e.typeName, wantType)
	}
	typed, ok := e.obj.(T)
	if !ok {
		return zero, apperr.New(apperr.Unexpected, "handle %s type tag %s does not match stored value", h, wantType)
	}
	return typed, nil
}

// OptLoad is Load but returns (zero, nil) for a None handle instead of an
// error, matching call sites where an absent handle is a valid "not
// provided" signal (e.g. an optional revocation registry id).
func OptLoad[T any](s *Store, h Handle, wantType string) (T, error) {
	var zero T
	if h.IsNone() {
		return zero, nil
	}
	return Load[T](s, h, wantType)
}

// Remove deletes h from the store. Removing an unknown or None handle is
// not an error; handle release is expected to be idempotent.
func Remove(s *Store, h Handle) {
	if h.IsNone() {
		return
	}
	s.mu.Lock()
	delete(s.objects, h)
	s.mu.Unlock()
}

// TypeNameOf returns the type tag a handle was created with.
func TypeNameOf(s *Store, h Handle) (string, error) {
	if h.IsNone() {
		return "", apperr.New(apperr.Input, "handle is none")
	}
	s.mu.RLock()
	e, ok := s.objects[h]
	s.mu.RUnlock()
	if !ok {
		return "", apperr.New(apperr.InvalidState, "handle %s does not exist", h)
	}
	return e.typeName, nil
}

// ToJSON marshals the object stored under h.
func ToJSON[T any](s *Store, h Handle, wantType string) ([]byte, error) {
	obj, err := Load[T](s, h, wantType)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "marshaling handle %s", h)
	}
	return b, nil
}

// FromJSON unmarshals data into a fresh T and stores it under a new
// handle tagged typeName.
func FromJSON[T any](s *Store, typeName string, data []byte) (Handle, error) {
	var obj T
	if err := json.Unmarshal(data, &obj); err != nil {
		return None, apperr.Wrap(apperr.Input, err, "unmarshaling %s", typeName)
	}
	return Create(s, typeName, obj), nil
}

// String renders a handle as "TypeName(n)" when its type tag is known in
// Default, "Handle(none)" for the none handle, and "Handle(n)" for a handle
// Default does not hold. Deliberately not the literal Rust newtype debug
// form.
func (h Handle) String() string {
	if h.IsNone() {
		return "Handle(none)"
	}
	typeName, err := TypeNameOf(Default, h)
	if err != nil {
		return fmt.Sprintf("Handle(%d)", uint64(h))
	}
	return fmt.Sprintf("%s(%d)", typeName, uint64(h))
}
