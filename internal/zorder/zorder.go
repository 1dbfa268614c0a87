// Package zorder allocates stacking ranks for desktop windows.
package zorder

import "sync/atomic"

// Allocator hands out strictly increasing z values. It is shared by every
// window on one desktop and is never reset or decremented.
type Allocator struct {
	last atomic.Int64
}

// NewAllocator returns an allocator whose first Next call returns base+1.
func NewAllocator(base int) *Allocator {
	a := &Allocator{}
	a.last.Store(int64(base))
	return a
}

// Next returns the next z value.
func (a *Allocator) Next() int {
	return int(a.last.Add(1))
}

// Current returns the most recently allocated value.
func (a *Allocator) Current() int {
	return int(a.last.Load())
}
