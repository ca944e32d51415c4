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

package xsync

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("With Set/Get/Delete", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("one", 1)
		value, ok := m.Get("one")
		require.True(t, ok)
		assert.Equal(t, 1, value)

		require.False(t, m.SetIfAbsent("one", 2))
		require.True(t, m.SetIfAbsent("two", 2))
		assert.Equal(t, 2, m.Len())
		assert.ElementsMatch(t, []int{1, 2}, m.Values())

		m.Delete("one")
		_, ok = m.Get("one")
		require.False(t, ok)

		value, ok = m.LoadAndDelete("two")
		require.True(t, ok)
		assert.Equal(t, 2, value)
		_, ok = m.LoadAndDelete("two")
		require.False(t, ok)
		m.Set("two", 2)

		m.Reset()
		assert.Zero(t, m.Len())
	})
	t.Run("With Range stopping early", func(t *testing.T) {
		m := NewMap[int, int]()
		for i := range 10 {
			m.Set(i, i)
		}
		visited := 0
		m.Range(func(int, int) bool {
			visited++
			return visited < 3
		})
		assert.Equal(t, 3, visited)
	})
	t.Run("With concurrent writers", func(t *testing.T) {
		m := NewMap[string, int]()
		wg := sync.WaitGroup{}
		for i := range 100 {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				m.Set(strconv.Itoa(v), v)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 100, m.Len())
	})
}
