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

	"github.com/serialx/hashring"
)

// Predicate tells whether a message should go to the given routee
type Predicate func(message any, routee Routee) bool

// ContentBased routes a message to every routee accepted by the predicate.
// Messages no routee accepts are dropped.
type ContentBased struct {
	predicate Predicate
}

var _ Strategy = (*ContentBased)(nil)

// NewContentBased creates an instance of ContentBased
func NewContentBased(predicate Predicate) *ContentBased {
	return &ContentBased{predicate: predicate}
}

// Name returns the strategy name
func (x *ContentBased) Name() string {
	return "ContentBased"
}

// Select returns the routees matching the predicate
func (x *ContentBased) Select(message any, routees []Routee) []Routee {
	var selected []Routee
	for _, routee := range routees {
		if x.predicate(message, routee) {
			selected = append(selected, routee)
		}
	}
	return selected
}

// KeyExtractor returns the hashing key of a message
type KeyExtractor func(message any) string

// ConsistentHashing delivers messages sharing the same key to the same routee
// as long as the pool stays the same.
type ConsistentHashing struct {
	extractor KeyExtractor

	mu   sync.Mutex
	ring *hashring.HashRing
	size int
}

var _ Strategy = (*ConsistentHashing)(nil)

// NewConsistentHashing creates an instance of ConsistentHashing
func NewConsistentHashing(extractor KeyExtractor) *ConsistentHashing {
	return &ConsistentHashing{extractor: extractor}
}

// Name returns the strategy name
func (x *ConsistentHashing) Name() string {
	return "ConsistentHashing"
}

// Select returns the routee owning the message key
func (x *ConsistentHashing) Select(message any, routees []Routee) []Routee {
	if len(routees) == 0 {
		return nil
	}

	node, ok := x.hashRing(routees).GetNode(x.extractor(message))
	if !ok {
		return nil
	}

	index, err := strconv.Atoi(node)
	if err != nil || index < 0 || index >= len(routees) {
		return nil
	}
	return routees[index : index+1]
}

func (x *ConsistentHashing) hashRing(routees []Routee) *hashring.HashRing {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.ring == nil || x.size != len(routees) {
		nodes := make([]string, len(routees))
		for position := range routees {
			nodes[position] = strconv.Itoa(position)
		}
		x.ring = hashring.New(nodes)
		x.size = len(routees)
	}
	return x.ring
}
