// Copyright 2020-2026 The Playout Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package producer

import (
	"fmt"
	"sort"
	"sync"

	"playout/pkg/format"
)

// Factory builds a Producer from a parameter list, the way AMCP's LOADBG
// hands a token list to the first factory willing to claim it.
type Factory func(desc format.Desc, params []string) (Producer, error)

// Registry holds the set of producer factories a channel can dispatch
// LOADBG/PLAY parameter lists to, tried in registration order.
type Registry struct {
	mu    sync.RWMutex
	names []string
	fns   map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: map[string]Factory{}}
}

// Register adds a named factory. Re-registering a name replaces it.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.fns[name]; !exists {
		r.names = append(r.names, name)
	}
	r.fns[name] = fn
}

// Create tries each registered factory, by registration order, returning
// the first one that successfully claims params. It returns an error
// naming params[0] if nothing claims it.
func (r *Registry) Create(desc format.Desc, params []string) (Producer, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("producer: empty parameter list")
	}
	r.mu.RLock()
	names := append([]string(nil), r.names...)
	r.mu.RUnlock()

	for _, name := range names {
		r.mu.RLock()
		fn := r.fns[name]
		r.mu.RUnlock()
		p, err := fn(desc, params)
		if err == nil && p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("producer: no factory could create %q", params[0])
}

// Names returns the registered factory names, sorted by name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string(nil), r.names...)
	sort.Strings(out)
	return out
}
