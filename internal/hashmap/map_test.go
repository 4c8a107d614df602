package hashmap

import (
	"bytes"
	"errors"
	"strconv"
	"testing"
)

func newIntMap(opts ...Option[uint32, int]) *Map[uint32, int] {
	return New[uint32, int](HashUint32, func(a, b uint32) bool { return a == b }, opts...)
}

// collidingHash sends every key to the same home slot.
func collidingHash(uint32) uint64 { return 7 }

func TestNew(t *testing.T) {
	m := newIntMap()
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
	if m.Cap() != 0 {
		t.Errorf("Cap() = %d, want 0 before first insert", m.Cap())
	}
	if !m.Get(1).IsEnd() {
		t.Error("Get on empty map should return end sentinel")
	}
}

func TestGetOrInsert(t *testing.T) {
	m := newIntMap()

	it, inserted, err := m.GetOrInsert(10, 100)
	if err != nil {
		t.Fatalf("GetOrInsert: %v", err)
	}
	if !inserted {
		t.Error("first GetOrInsert should insert")
	}
	if it.Value() != 100 {
		t.Errorf("Value() = %d, want 100", it.Value())
	}

	it, inserted, err = m.GetOrInsert(10, 200)
	if err != nil {
		t.Fatalf("GetOrInsert: %v", err)
	}
	if inserted {
		t.Error("second GetOrInsert should find the existing entry")
	}
	if it.Value() != 100 {
		t.Errorf("Value() = %d, want 100 (existing value kept)", it.Value())
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestInsertOverwriteRunsDestructors(t *testing.T) {
	var keys []uint32
	var vals []int
	m := newIntMap(
		WithKeyDestructor[uint32, int](func(k uint32) { keys = append(keys, k) }),
		WithValueDestructor[uint32, int](func(v int) { vals = append(vals, v) }),
	)

	if _, err := m.Insert(1, 10); err != nil {
		t.Fatal(err)
	}
	if len(vals) != 0 {
		t.Fatalf("destructor ran on fresh insert: %v", vals)
	}
	if _, err := m.Insert(1, 11); err != nil {
		t.Fatal(err)
	}
	if len(vals) != 1 || vals[0] != 10 {
		t.Errorf("value destructor calls = %v, want [10]", vals)
	}
	if len(keys) != 1 || keys[0] != 1 {
		t.Errorf("key destructor calls = %v, want [1]", keys)
	}
	if got := m.Get(1).Value(); got != 11 {
		t.Errorf("Get(1) = %d, want 11", got)
	}
}

func TestGrowthKeepsEntries(t *testing.T) {
	m := newIntMap()
	const n = 10000
	for i := 0; i < n; i++ {
		if _, err := m.Insert(uint32(i), i*2); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if m.Len() != n {
		t.Fatalf("Len() = %d, want %d", m.Len(), n)
	}
	if c := m.Cap(); c&(c-1) != 0 {
		t.Errorf("Cap() = %d, want a power of 2", c)
	}
	if m.Len()*maxLoadDen > m.Cap()*maxLoadNum {
		t.Errorf("load factor exceeded: len=%d cap=%d", m.Len(), m.Cap())
	}
	for i := 0; i < n; i++ {
		it := m.Get(uint32(i))
		if it.IsEnd() {
			t.Fatalf("Get(%d) missing after growth", i)
		}
		if it.Value() != i*2 {
			t.Fatalf("Get(%d) = %d, want %d", i, it.Value(), i*2)
		}
	}
}

func TestEraseBackwardShift(t *testing.T) {
	// All keys share one home slot, so they form a single probe cluster.
	m := New[uint32, int](collidingHash, func(a, b uint32) bool { return a == b })
	for i := uint32(0); i < 6; i++ {
		if _, err := m.Insert(i, int(i)); err != nil {
			t.Fatal(err)
		}
	}

	if !m.Erase(2) {
		t.Fatal("Erase(2) = false, want true")
	}
	if m.Erase(2) {
		t.Error("second Erase(2) = true, want false")
	}
	for _, k := range []uint32{0, 1, 3, 4, 5} {
		if m.Get(k).IsEnd() {
			t.Errorf("Get(%d) missing after erasing a cluster member", k)
		}
	}
	if !m.Get(2).IsEnd() {
		t.Error("Get(2) found an erased key")
	}

	// No tombstones: every occupied slot must be reachable without gaps.
	occupied := 0
	for i := range m.slots {
		if m.slots[i].dist != 0 {
			occupied++
		}
	}
	if occupied != m.Len() {
		t.Errorf("occupied slots = %d, want %d", occupied, m.Len())
	}
}

func TestEraseRunsDestructors(t *testing.T) {
	released := 0
	m := newIntMap(WithValueDestructor[uint32, int](func(int) { released++ }))
	_, _ = m.Insert(1, 1)
	_, _ = m.Insert(2, 2)

	m.Erase(1)
	if released != 1 {
		t.Errorf("released = %d after Erase, want 1", released)
	}
	m.Cleanup()
	if released != 2 {
		t.Errorf("released = %d after Cleanup, want 2", released)
	}
	if m.Len() != 0 || m.Cap() != 0 {
		t.Errorf("after Cleanup Len=%d Cap=%d, want 0 0", m.Len(), m.Cap())
	}

	// Cleanup twice is harmless and the map is reusable.
	m.Cleanup()
	if _, err := m.Insert(3, 3); err != nil {
		t.Fatalf("Insert after Cleanup: %v", err)
	}
	if m.Get(3).Value() != 3 {
		t.Error("map not usable after Cleanup")
	}
}

func TestClearKeepsCapacity(t *testing.T) {
	m := newIntMap()
	for i := uint32(0); i < 100; i++ {
		_, _ = m.Insert(i, 0)
	}
	c := m.Cap()
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", m.Len())
	}
	if m.Cap() != c {
		t.Errorf("Cap() = %d after Clear, want %d", m.Cap(), c)
	}
}

func TestMaxLen(t *testing.T) {
	m := newIntMap(WithMaxLen[uint32, int](3))
	for i := uint32(0); i < 3; i++ {
		if _, err := m.Insert(i, 0); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	_, inserted, err := m.GetOrInsert(99, 0)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("err = %v, want ErrCapacityExceeded", err)
	}
	if inserted {
		t.Error("inserted = true on failure")
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (nothing added on failure)", m.Len())
	}

	// Overwriting an existing key needs no room.
	if _, err := m.Insert(1, 5); err != nil {
		t.Errorf("overwrite at limit: %v", err)
	}
}

func TestReserve(t *testing.T) {
	m := newIntMap()
	if err := m.Reserve(1000); err != nil {
		t.Fatal(err)
	}
	c := m.Cap()
	for i := uint32(0); i < 1000; i++ {
		_, _ = m.Insert(i, 0)
	}
	if m.Cap() != c {
		t.Errorf("Cap() changed from %d to %d after reserved inserts", c, m.Cap())
	}
}

func TestIteration(t *testing.T) {
	m := newIntMap()
	want := map[uint32]int{}
	for i := uint32(0); i < 50; i++ {
		_, _ = m.Insert(i, int(i)+1)
		want[i] = int(i) + 1
	}
	seen := 0
	for it := m.First(); !it.IsEnd(); it = it.Next() {
		if want[it.Key()] != it.Value() {
			t.Errorf("entry %d = %d, want %d", it.Key(), it.Value(), want[it.Key()])
		}
		seen++
	}
	if seen != len(want) {
		t.Errorf("iterated %d entries, want %d", seen, len(want))
	}

	empty := newIntMap()
	if !empty.First().IsEnd() {
		t.Error("First() on empty map should be end sentinel")
	}
}

func TestSetValue(t *testing.T) {
	m := newIntMap()
	it, _ := m.Insert(4, 1)
	it.SetValue(9)
	if got := m.Get(4).Value(); got != 9 {
		t.Errorf("Get(4) = %d, want 9", got)
	}
}

func TestByteSliceKeys(t *testing.T) {
	m := New[[]byte, string](HashBytes, bytes.Equal)
	for i := 0; i < 200; i++ {
		k := []byte("key-" + strconv.Itoa(i))
		if _, err := m.Insert(k, strconv.Itoa(i)); err != nil {
			t.Fatal(err)
		}
	}
	it := m.Get([]byte("key-123"))
	if it.IsEnd() || it.Value() != "123" {
		t.Errorf("Get(key-123) = %v", it)
	}
	if !m.Get([]byte("key-1234")).IsEnd() {
		t.Error("Get(key-1234) should be absent")
	}
}

func TestHashBytes(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"", 0xcbf29ce484222325},
		{"a", 0xaf63dc4c8601ec8c},
		{"foobar", 0x85944171f73967e8},
	}
	for _, tt := range tests {
		if got := HashBytes([]byte(tt.in)); got != tt.want {
			t.Errorf("HashBytes(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestGetDoesNotAllocate(t *testing.T) {
	m := New[[]byte, int](HashBytes, bytes.Equal)
	_, _ = m.Insert([]byte{1, 2, 3, 4}, 1)
	key := []byte{1, 2, 3, 4}
	allocs := testing.AllocsPerRun(100, func() {
		_ = m.Get(key)
	})
	if allocs != 0 {
		t.Errorf("Get allocated %.1f times, want 0", allocs)
	}
}
