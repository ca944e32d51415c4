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
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcore/address"
	gerrors "github.com/tochemey/actorcore/errors"
	"github.com/tochemey/actorcore/internal/xsync"
)

// Directory indexes the live actors of a world by address identifier.
// The name is not part of the key: two addresses sharing an identifier
// denote the same actor. It is split into buckets so that concurrent spawns
// rarely contend.
type Directory struct {
	shards []*xsync.Map[string, *PID]
	size   *atomic.Int64
}

// NewDirectory creates a Directory with the given number of buckets
func NewDirectory(shards int) *Directory {
	d := &Directory{
		shards: make([]*xsync.Map[string, *PID], max(shards, 1)),
		size:   atomic.NewInt64(0),
	}
	for i := range d.shards {
		d.shards[i] = xsync.NewMap[string, *PID]()
	}
	return d
}

// Register adds pid to the directory. It fails with ErrDuplicateAddress
// when its address identifier is already taken.
func (d *Directory) Register(pid *PID) error {
	if pid == nil {
		return gerrors.ErrUndefinedActor
	}

	key := pid.Address().IDString()
	if !d.shard(key).SetIfAbsent(key, pid) {
		return gerrors.NewErrDuplicateAddress(pid.Address().String())
	}
	d.size.Inc()
	return nil
}

// Lookup returns the actor living at addr
func (d *Directory) Lookup(addr *address.Address) (*PID, bool) {
	if addr == nil {
		return nil, false
	}
	key := addr.IDString()
	return d.shard(key).Get(key)
}

// LookupByName returns a live actor with the given name
func (d *Directory) LookupByName(name string) (*PID, bool) {
	var found *PID
	for _, shard := range d.shards {
		shard.Range(func(_ string, pid *PID) bool {
			if pid.Address().Name() == name {
				found = pid
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

// Remove deletes the actor living at addr
func (d *Directory) Remove(addr *address.Address) {
	if addr == nil {
		return
	}
	key := addr.IDString()
	if _, ok := d.shard(key).LoadAndDelete(key); ok {
		d.size.Dec()
	}
}

// Len returns the number of registered actors
func (d *Directory) Len() int {
	return int(d.size.Load())
}

// Actors returns the registered actors
func (d *Directory) Actors() []*PID {
	actors := make([]*PID, 0, d.Len())
	for _, shard := range d.shards {
		actors = append(actors, shard.Values()...)
	}
	return actors
}

func (d *Directory) shard(key string) *xsync.Map[string, *PID] {
	return d.shards[xxh3.HashString(key)%uint64(len(d.shards))]
}
