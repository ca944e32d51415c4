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

package router

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRoutee struct {
	index   int
	pending int64
	erp     string
}

func (x *testRoutee) Index() int             { return x.index }
func (x *testRoutee) PendingMessages() int64 { return x.pending }

type invoice struct {
	erp    string
	number int
}

func newPool(pending ...int64) []Routee {
	routees := make([]Routee, len(pending))
	for i, p := range pending {
		routees[i] = &testRoutee{index: i, pending: p}
	}
	return routees
}

func TestRoundRobin(t *testing.T) {
	t.Run("With even distribution", func(t *testing.T) {
		const poolSize = 5
		const rounds = 20
		routees := newPool(make([]int64, poolSize)...)
		strategy := NewRoundRobin()
		counts := make(map[int]int)
		for range poolSize * rounds {
			selected := strategy.Select("work", routees)
			require.Len(t, selected, 1)
			counts[selected[0].Index()]++
		}
		for index := range poolSize {
			assert.Equal(t, rounds, counts[index])
		}
	})
	t.Run("With concurrent dispatches", func(t *testing.T) {
		const poolSize = 4
		const perWorker = 1000
		routees := newPool(make([]int64, poolSize)...)
		strategy := NewRoundRobin()

		mu := sync.Mutex{}
		counts := make(map[int]int)
		wg := sync.WaitGroup{}
		for range poolSize {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWorker {
					selected := strategy.Select("work", routees)
					mu.Lock()
					counts[selected[0].Index()]++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		for index := range poolSize {
			assert.Equal(t, perWorker, counts[index])
		}
	})
	t.Run("With empty pool", func(t *testing.T) {
		assert.Empty(t, NewRoundRobin().Select("work", nil))
	})
}

func TestRandom(t *testing.T) {
	routees := newPool(0, 0, 0)
	strategy := NewRandom()
	assert.Equal(t, "Random", strategy.Name())
	seen := make(map[int]struct{})
	for range 300 {
		selected := strategy.Select("work", routees)
		require.Len(t, selected, 1)
		seen[selected[0].Index()] = struct{}{}
	}
	assert.Len(t, seen, 3)
	assert.Empty(t, strategy.Select("work", nil))
}

func TestBroadcast(t *testing.T) {
	routees := newPool(0, 0, 0)
	selected := NewBroadcast().Select("work", routees)
	assert.Len(t, selected, 3)
}

func TestSmallestMailbox(t *testing.T) {
	strategy := NewSmallestMailbox()
	selected := strategy.Select("work", newPool(4, 2, 7, 2))
	require.Len(t, selected, 1)
	assert.Equal(t, 1, selected[0].Index())

	selected = strategy.Select("work", newPool(3, 3, 3))
	assert.Equal(t, 0, selected[0].Index())

	selected = strategy.Select("work", newPool(5, 0, 0))
	assert.Equal(t, 1, selected[0].Index())
	assert.Empty(t, strategy.Select("work", nil))
}

func TestContentBased(t *testing.T) {
	erps := []string{"ABC", "DEF", "GHI"}
	routees := make([]Routee, len(erps))
	for i, erp := range erps {
		routees[i] = &testRoutee{index: i, erp: erp}
	}

	strategy := NewContentBased(func(message any, routee Routee) bool {
		submitted, ok := message.(*invoice)
		return ok && submitted.erp == routee.(*testRoutee).erp
	})
	assert.Equal(t, "ContentBased", strategy.Name())

	for i, erp := range erps {
		selected := strategy.Select(&invoice{erp: erp}, routees)
		require.Len(t, selected, 1)
		assert.Equal(t, i, selected[0].Index())
	}

	assert.Empty(t, strategy.Select(&invoice{erp: "XYZ"}, routees))
	assert.Empty(t, strategy.Select("not an invoice", routees))
}

func TestConsistentHashing(t *testing.T) {
	routees := newPool(0, 0, 0, 0)
	strategy := NewConsistentHashing(func(message any) string {
		return message.(*invoice).erp
	})

	owners := make(map[string]int)
	for i := range 100 {
		erp := "erp-" + strconv.Itoa(i%10)
		selected := strategy.Select(&invoice{erp: erp, number: i}, routees)
		require.Len(t, selected, 1)
		if owner, ok := owners[erp]; ok {
			assert.Equal(t, owner, selected[0].Index())
		}
		owners[erp] = selected[0].Index()
	}
	assert.Empty(t, strategy.Select(&invoice{erp: "x"}, nil))
}
