// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package capi

import "sync"

// Handle references an object owned by the library. The upper 32 bits carry the slot generation, the lower 32 bits
// the slot index plus one. The zero Handle is never issued.
type Handle uint64

func newHandle(generation, index uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index+1))
}

func (h Handle) split() (generation, index uint32, ok bool) {
	low := uint32(h)
	if low == 0 {
		return 0, 0, false
	}

	return uint32(h >> 32), low - 1, true
}

type slot[T any] struct {
	value      *T
	generation uint32
}

// arena stores objects behind generation-checked handles. A freed slot bumps its generation, so handles to the
// previous occupant are rejected.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	mu    sync.Mutex
}

func (a *arena[T]) insert(value *T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n != 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[index].value = value

		return newHandle(a.slots[index].generation, index)
	}

	a.slots = append(a.slots, slot[T]{value: value, generation: 1})
	index := uint32(len(a.slots) - 1)

	return newHandle(1, index)
}

func (a *arena[T]) lookup(h Handle) (uint32, bool) {
	generation, index, ok := h.split()
	if !ok || index >= uint32(len(a.slots)) {
		return 0, false
	}

	s := a.slots[index]
	if s.value == nil || s.generation != generation {
		return 0, false
	}

	return index, true
}

func (a *arena[T]) get(h Handle) (*T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	index, ok := a.lookup(h)
	if !ok {
		return nil, false
	}

	return a.slots[index].value, true
}

func (a *arena[T]) remove(h Handle) (*T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	index, ok := a.lookup(h)
	if !ok {
		return nil, false
	}

	value := a.slots[index].value
	a.slots[index].value = nil
	a.slots[index].generation++
	a.free = append(a.free, index)

	return value, true
}

func (a *arena[T]) len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.slots) - len(a.free)
}
