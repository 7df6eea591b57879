// Package lazy provides values that are computed on first access and cached
// for the lifetime of the owning object.
package lazy

import "sync"

// Value holds a result computed at most once.
// The cached result is never invalidated.
type Value[T any] struct {
	once sync.Once
	fn   func() T
	val  T
}

// New returns a Value that calls fn on the first Get.
func New[T any](fn func() T) *Value[T] {
	return &Value[T]{fn: fn}
}

// Get returns the cached result, computing it on the first call.
// Safe for concurrent use. A Value with a nil func yields the zero T.
func (v *Value[T]) Get() T {
	v.once.Do(func() {
		if v.fn != nil {
			v.val = v.fn()
		}
		v.fn = nil
	})
	return v.val
}

// ValueErr is a Value whose computation can fail.
// The error is cached along with the result; a failed computation is not retried.
type ValueErr[T any] struct {
	once sync.Once
	fn   func() (T, error)
	val  T
	err  error
}

// NewErr returns a ValueErr that calls fn on the first Get.
func NewErr[T any](fn func() (T, error)) *ValueErr[T] {
	return &ValueErr[T]{fn: fn}
}

// Get returns the cached result and error.
func (v *ValueErr[T]) Get() (T, error) {
	v.once.Do(func() {
		if v.fn != nil {
			v.val, v.err = v.fn()
		}
		v.fn = nil
	})
	return v.val, v.err
}
