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

package actor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
)

func TestDirectory(t *testing.T) {
	t.Run("With register and lookup", func(t *testing.T) {
		directory := NewDirectory(4)
		pid := &PID{address: address.NewSequential(1, "account")}

		require.NoError(t, directory.Register(pid))
		assert.Equal(t, 1, directory.Len())

		actual, ok := directory.Lookup(address.NewSequential(1, "account"))
		require.True(t, ok)
		assert.Same(t, pid, actual)

		actual, ok = directory.LookupByName("account")
		require.True(t, ok)
		assert.Same(t, pid, actual)

		_, ok = directory.LookupByName("unknown")
		assert.False(t, ok)

		_, ok = directory.Lookup(nil)
		assert.False(t, ok)
	})
	t.Run("With duplicate address", func(t *testing.T) {
		directory := NewDirectory(4)
		require.NoError(t, directory.Register(&PID{address: address.NewSequential(1, "account")}))

		err := directory.Register(&PID{address: address.NewSequential(1, "account")})
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrDuplicateAddress)
		assert.Equal(t, 1, directory.Len())
	})
	t.Run("With duplicate identifier under another name", func(t *testing.T) {
		directory := NewDirectory(4)
		pid := &PID{address: address.NewSequential(1, "account")}
		require.NoError(t, directory.Register(pid))

		err := directory.Register(&PID{address: address.NewSequential(1, "ledger")})
		require.ErrorIs(t, err, gerrors.ErrDuplicateAddress)
		assert.Equal(t, 1, directory.Len())

		actual, ok := directory.Lookup(address.NewSequential(1, "ledger"))
		require.True(t, ok)
		assert.Same(t, pid, actual)
	})
	t.Run("With undefined actor", func(t *testing.T) {
		directory := NewDirectory(4)
		assert.ErrorIs(t, directory.Register(nil), gerrors.ErrUndefinedActor)
	})
	t.Run("With remove", func(t *testing.T) {
		directory := NewDirectory(4)
		addr := address.NewSequential(1, "account")
		require.NoError(t, directory.Register(&PID{address: addr}))

		directory.Remove(addr)
		directory.Remove(addr)
		directory.Remove(nil)

		assert.Zero(t, directory.Len())
		_, ok := directory.Lookup(addr)
		assert.False(t, ok)

		// the address can be taken again
		require.NoError(t, directory.Register(&PID{address: addr}))
	})
	t.Run("With concurrent registrations", func(t *testing.T) {
		directory := NewDirectory(DefaultDirectoryShards)
		allocator := address.NewSequentialAllocator()

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					assert.NoError(t, directory.Register(&PID{address: allocator.Allocate("worker")}))
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1000, directory.Len())
		assert.Len(t, directory.Actors(), 1000)
	})
}
