/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package value

import "testing"

func TestEqualScalarsAndBytes(t *testing.T) {
	if !Equal(NewInt(5), NewInt(5)) {
		t.Fatalf("expected equal ints")
	}
	if Equal(NewInt(5), NewInt(6)) {
		t.Fatalf("expected unequal ints")
	}
	if !Equal(NewBytes([]byte("abc")), NewBytes([]byte("abc"))) {
		t.Fatalf("expected equal byte slices")
	}
	if Equal(NewBytes([]byte("abc")), NewBytes([]byte("abd"))) {
		t.Fatalf("expected unequal byte slices")
	}
}

func TestEqualMapOrderSensitive(t *testing.T) {
	a := NewOrderedMap()
	a.Set("x", NewInt(1))
	a.Set("y", NewInt(2))

	b := NewOrderedMap()
	b.Set("y", NewInt(2))
	b.Set("x", NewInt(1))

	if Equal(NewMap(a), NewMap(b)) {
		t.Fatalf("Equal must be order-sensitive for maps")
	}
	if !EqualUnordered(NewMap(a), NewMap(b)) {
		t.Fatalf("EqualUnordered must ignore key order")
	}
}

func TestEqualUnorderedNested(t *testing.T) {
	inner1 := NewOrderedMap()
	inner1.Set("a", NewInt(1))
	inner1.Set("b", NewInt(2))

	inner2 := NewOrderedMap()
	inner2.Set("b", NewInt(2))
	inner2.Set("a", NewInt(1))

	outer1 := NewOrderedMap()
	outer1.Set("inner", NewMap(inner1))
	outer1.Set("tag", NewString("t"))

	outer2 := NewOrderedMap()
	outer2.Set("tag", NewString("t"))
	outer2.Set("inner", NewMap(inner2))

	if !EqualUnordered(NewMap(outer1), NewMap(outer2)) {
		t.Fatalf("EqualUnordered should recurse through nested maps")
	}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("z", NewInt(1))
	m.Set("a", NewInt(2))
	m.Set("m", NewInt(3))

	keys := m.Keys()
	want := []string{"z", "a", "m"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}

	m.Set("a", NewInt(99))
	if len(m.Keys()) != 3 {
		t.Fatalf("re-setting an existing key must not append a duplicate")
	}
	v, _ := m.Get("a")
	if v.Int() != 99 {
		t.Fatalf("re-setting an existing key must update its value")
	}
}
