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

// Package address provides the identity of actors living in a World.
//
// An address is made of:
//
//   - ID: a sequential numeric identifier, or
//   - GUID: a time-ordered UUID when the world uses a GUID allocator
//   - Name: an optional human readable name
//
// The canonical textual representation of an Address is:
//
//	<name>#<id>
//
// or only <id> when the address is unnamed. Addresses are immutable once
// allocated and totally ordered through Compare.
package address

import (
	"bytes"
	"cmp"
	"strconv"

	"github.com/google/uuid"
)

// Address represents the unique identity of an actor within a World.
type Address struct {
	id   uint64
	guid uuid.UUID
	name string
}

// NewSequential creates an Address from a numeric identifier.
func NewSequential(id uint64, name string) *Address {
	return &Address{id: id, name: name}
}

// NewGUID creates an Address from a UUID.
func NewGUID(guid uuid.UUID, name string) *Address {
	return &Address{guid: guid, name: name}
}

// ID returns the numeric identifier. It is zero for GUID based addresses.
func (a *Address) ID() uint64 {
	return a.id
}

// GUID returns the UUID of a GUID based address and uuid.Nil otherwise.
func (a *Address) GUID() uuid.UUID {
	return a.guid
}

// IsGUID returns true when the address is GUID based
func (a *Address) IsGUID() bool {
	return a.guid != uuid.Nil
}

// Name returns the optional name
func (a *Address) Name() string {
	return a.name
}

// IDString returns the textual form of the identifier
func (a *Address) IDString() string {
	if a.IsGUID() {
		return a.guid.String()
	}
	return strconv.FormatUint(a.id, 10)
}

// String returns the canonical representation of the address
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	if a.name == "" {
		return a.IDString()
	}
	return a.name + "#" + a.IDString()
}

// Compare returns -1, 0 or +1 depending on whether a sorts before,
// equal to or after other. Numeric addresses sort before GUID ones.
func (a *Address) Compare(other *Address) int {
	switch {
	case a.IsGUID() && other.IsGUID():
		if c := bytes.Compare(a.guid[:], other.guid[:]); c != 0 {
			return c
		}
	case a.IsGUID():
		return 1
	case other.IsGUID():
		return -1
	default:
		if c := cmp.Compare(a.id, other.id); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.name, other.name)
}

// Equals is used to compare two addresses
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Compare(other) == 0
}
