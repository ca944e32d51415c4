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
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	t.Run("With sequential address", func(t *testing.T) {
		addr := NewSequential(12, "pinger")
		assert.EqualValues(t, 12, addr.ID())
		assert.Equal(t, "pinger", addr.Name())
		assert.False(t, addr.IsGUID())
		assert.Equal(t, uuid.Nil, addr.GUID())
		assert.Equal(t, "pinger#12", addr.String())
		assert.Equal(t, "12", NewSequential(12, "").String())
	})
	t.Run("With GUID address", func(t *testing.T) {
		guid := uuid.New()
		addr := NewGUID(guid, "")
		assert.True(t, addr.IsGUID())
		assert.Equal(t, guid.String(), addr.String())
		assert.Zero(t, addr.ID())
	})
	t.Run("With ordering", func(t *testing.T) {
		first := NewSequential(1, "b")
		second := NewSequential(2, "a")
		guid := NewGUID(uuid.New(), "")
		assert.Equal(t, -1, first.Compare(second))
		assert.Equal(t, 1, second.Compare(first))
		assert.Equal(t, 0, first.Compare(NewSequential(1, "b")))
		assert.Equal(t, -1, second.Compare(guid))
		assert.Equal(t, 1, guid.Compare(first))
		assert.True(t, first.Equals(NewSequential(1, "b")))
		assert.False(t, first.Equals(NewSequential(1, "c")))
		assert.False(t, first.Equals(nil))
	})
}

func TestAllocator(t *testing.T) {
	t.Run("With sequential allocator", func(t *testing.T) {
		allocator := NewSequentialAllocator()
		first := allocator.Allocate("first")
		second := allocator.Allocate("")
		assert.EqualValues(t, 1, first.ID())
		assert.EqualValues(t, 2, second.ID())
		assert.Equal(t, -1, first.Compare(second))
	})
	t.Run("With concurrent allocations", func(t *testing.T) {
		allocator := NewSequentialAllocator()
		const producers = 8
		const perProducer = 1000
		results := make(chan uint64, producers*perProducer)
		wg := sync.WaitGroup{}
		for range producers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perProducer {
					results <- allocator.Allocate("").ID()
				}
			}()
		}
		wg.Wait()
		close(results)

		seen := make(map[uint64]struct{}, producers*perProducer)
		for id := range results {
			_, exists := seen[id]
			require.False(t, exists)
			seen[id] = struct{}{}
		}
		require.Len(t, seen, producers*perProducer)
	})
	t.Run("With GUID allocator", func(t *testing.T) {
		allocator := NewGUIDAllocator()
		addresses := make([]*Address, 0, 100)
		for range 100 {
			addresses = append(addresses, allocator.Allocate("worker"))
		}
		assert.True(t, sort.SliceIsSorted(addresses, func(i, j int) bool {
			return addresses[i].Compare(addresses[j]) < 0
		}))
		assert.False(t, addresses[0].Equals(addresses[1]))
	})
}
