// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package address

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Allocator hands out unique addresses.
// Implementations must be safe for concurrent use.
type Allocator interface {
	// Allocate returns a new address carrying the optional name
	Allocate(name string) *Address
}

type sequentialAllocator struct {
	next *atomic.Uint64
}

// NewSequentialAllocator returns an Allocator handing out monotonic numeric ids starting at 1.
func NewSequentialAllocator() Allocator {
	return &sequentialAllocator{next: atomic.NewUint64(0)}
}

func (x *sequentialAllocator) Allocate(name string) *Address {
	return NewSequential(x.next.Inc(), name)
}

type guidAllocator struct{}

// NewGUIDAllocator returns an Allocator handing out time-ordered UUIDs.
func NewGUIDAllocator() Allocator {
	return guidAllocator{}
}

func (guidAllocator) Allocate(name string) *Address {
	guid, err := uuid.NewV7()
	if err != nil {
		guid = uuid.New()
	}
	return NewGUID(guid, name)
}
