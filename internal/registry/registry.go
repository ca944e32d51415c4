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

package registry

import (
	"reflect"
	"strings"

	"github.com/tochemey/actorcore/internal/xsync"
)

// Registry maps names to values. Names are trimmed before use.
// It is safe for concurrent use.
type Registry[V any] struct {
	m *xsync.Map[string, V]
}

// New creates a new Registry
func New[V any]() *Registry[V] {
	return &Registry[V]{
		m: xsync.NewMap[string, V](),
	}
}

// Register binds the value to name, replacing any previous binding
func (x *Registry[V]) Register(name string, v V) {
	x.m.Set(trim(name), v)
}

// Lookup returns the value bound to name
func (x *Registry[V]) Lookup(name string) (V, bool) {
	return x.m.Get(trim(name))
}

// Exists returns true when name is bound
func (x *Registry[V]) Exists(name string) bool {
	_, ok := x.m.Get(trim(name))
	return ok
}

// Names returns the registered names
func (x *Registry[V]) Names() []string {
	names := make([]string, 0, x.m.Len())
	x.m.Range(func(name string, _ V) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Name returns the type name of a given object.
// Pointers are dereferenced so that T and *T share a name.
func Name(v any) string {
	if v == nil {
		return "nil"
	}

	var rtype reflect.Type
	switch _type := v.(type) {
	case reflect.Type:
		rtype = _type
	default:
		rtype = reflect.TypeOf(v)
	}

	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	return rtype.String()
}

func trim(key string) string {
	return strings.TrimSpace(key)
}
