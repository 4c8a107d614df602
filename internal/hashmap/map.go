package hashmap

import "errors"

// ErrCapacityExceeded is returned when an insertion would grow the map past
// the limit configured with WithMaxLen.
var ErrCapacityExceeded = errors.New("hashmap: capacity exceeded")

const (
	// minCapacity is the smallest non-zero slot count. Must be a power of 2.
	minCapacity = 8

	// maxLoadNum/maxLoadDen is the load factor that triggers growth.
	maxLoadNum = 7
	maxLoadDen = 8
)

// slot holds one entry. dist is the probe distance plus one, so the zero
// value marks an empty slot.
type slot[K, V any] struct {
	key  K
	val  V
	hash uint64
	dist uint32
}

// Map is an open-addressing hash table with robin-hood probing.
//
// The zero value is not usable; create maps with New.
type Map[K, V any] struct {
	slots []slot[K, V]
	mask  uint64
	count int

	hash  func(K) uint64
	equal func(a, b K) bool

	keyDtor func(K)
	valDtor func(V)
	maxLen  int
}

// Option configures a Map during creation.
type Option[K, V any] func(*Map[K, V])

// WithKeyDestructor sets a function called on every key the map releases:
// keys replaced by Insert, erased, cleared or dropped by Cleanup.
func WithKeyDestructor[K, V any](fn func(K)) Option[K, V] {
	return func(m *Map[K, V]) {
		m.keyDtor = fn
	}
}

// WithValueDestructor sets a function called on every value the map
// releases, under the same rules as WithKeyDestructor.
func WithValueDestructor[K, V any](fn func(V)) Option[K, V] {
	return func(m *Map[K, V]) {
		m.valDtor = fn
	}
}

// WithMaxLen limits the number of entries. Insertions beyond the limit fail
// with ErrCapacityExceeded. Zero means unlimited.
func WithMaxLen[K, V any](n int) Option[K, V] {
	return func(m *Map[K, V]) {
		if n > 0 {
			m.maxLen = n
		}
	}
}

// New creates an empty map using hash and equal for keys.
// Equal keys must produce equal hashes.
// No storage is allocated until the first insertion.
func New[K, V any](hash func(K) uint64, equal func(a, b K) bool, opts ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		hash:  hash,
		equal: equal,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.count
}

// Cap returns the number of slots currently allocated.
func (m *Map[K, V]) Cap() int {
	return len(m.slots)
}

// Get looks up k. The returned iterator is the end sentinel if k is absent.
func (m *Map[K, V]) Get(k K) Iter[K, V] {
	if m.count == 0 {
		return end[K, V]()
	}
	i := m.find(k, m.hash(k))
	if i < 0 {
		return end[K, V]()
	}
	return Iter[K, V]{m: m, i: i}
}

// Insert stores v under k, replacing any existing entry. The replaced key
// and value are passed to the destructors.
func (m *Map[K, V]) Insert(k K, v V) (Iter[K, V], error) {
	h := m.hash(k)
	if i := m.find(k, h); i >= 0 {
		s := &m.slots[i]
		oldKey, oldVal := s.key, s.val
		s.key, s.val = k, v
		if m.keyDtor != nil {
			m.keyDtor(oldKey)
		}
		if m.valDtor != nil {
			m.valDtor(oldVal)
		}
		return Iter[K, V]{m: m, i: i}, nil
	}
	if err := m.ensure(m.count + 1); err != nil {
		return end[K, V](), err
	}
	return Iter[K, V]{m: m, i: m.place(k, v, h)}, nil
}

// GetOrInsert returns the existing entry for k, or inserts v under k.
// inserted reports which of the two happened. On error nothing is inserted.
func (m *Map[K, V]) GetOrInsert(k K, v V) (it Iter[K, V], inserted bool, err error) {
	h := m.hash(k)
	if i := m.find(k, h); i >= 0 {
		return Iter[K, V]{m: m, i: i}, false, nil
	}
	if err := m.ensure(m.count + 1); err != nil {
		return end[K, V](), false, err
	}
	return Iter[K, V]{m: m, i: m.place(k, v, h)}, true, nil
}

// Erase removes k. Returns true if an entry was removed.
func (m *Map[K, V]) Erase(k K) bool {
	if m.count == 0 {
		return false
	}
	i := m.find(k, m.hash(k))
	if i < 0 {
		return false
	}
	s := m.slots[i]
	m.removeAt(uint64(i))
	m.release(&s)
	return true
}

// Reserve grows the map so that n entries fit without further growth.
func (m *Map[K, V]) Reserve(n int) error {
	return m.ensure(n)
}

// Clear removes every entry, keeping the allocated slots.
func (m *Map[K, V]) Clear() {
	for i := range m.slots {
		if m.slots[i].dist != 0 {
			m.release(&m.slots[i])
		}
	}
	clear(m.slots)
	m.count = 0
}

// Cleanup removes every entry and releases the slot storage.
// The map stays usable and starts over empty.
func (m *Map[K, V]) Cleanup() {
	m.Clear()
	m.slots = nil
	m.mask = 0
}

// First returns an iterator to the first entry, or the end sentinel.
// Iteration order is unspecified. Any mutation invalidates iterators.
func (m *Map[K, V]) First() Iter[K, V] {
	return Iter[K, V]{m: m, i: -1}.Next()
}

// find returns the slot index holding k, or -1.
func (m *Map[K, V]) find(k K, h uint64) int {
	if len(m.slots) == 0 {
		return -1
	}
	i := h & m.mask
	for d := uint32(1); ; d++ {
		s := &m.slots[i]
		// An empty slot, or one closer to home than we are, ends the probe.
		if s.dist < d {
			return -1
		}
		if s.hash == h && m.equal(s.key, k) {
			return int(i)
		}
		i = (i + 1) & m.mask
	}
}

// place inserts an absent key, displacing richer entries along the way.
// Returns the final index of the inserted key.
func (m *Map[K, V]) place(k K, v V, h uint64) int {
	cur := slot[K, V]{key: k, val: v, hash: h, dist: 1}
	pos := -1
	i := h & m.mask
	for {
		s := &m.slots[i]
		if s.dist == 0 {
			*s = cur
			if pos < 0 {
				pos = int(i)
			}
			m.count++
			return pos
		}
		if s.dist < cur.dist {
			*s, cur = cur, *s
			if pos < 0 {
				pos = int(i)
			}
		}
		i = (i + 1) & m.mask
		cur.dist++
	}
}

// removeAt empties slot i and shifts the following cluster back by one.
func (m *Map[K, V]) removeAt(i uint64) {
	for {
		next := (i + 1) & m.mask
		if m.slots[next].dist <= 1 {
			break
		}
		m.slots[i] = m.slots[next]
		m.slots[i].dist--
		i = next
	}
	m.slots[i] = slot[K, V]{}
	m.count--
}

// ensure grows the slot array so that n entries stay under the load limit.
func (m *Map[K, V]) ensure(n int) error {
	if m.maxLen > 0 && n > m.maxLen {
		return ErrCapacityExceeded
	}
	if n*maxLoadDen <= len(m.slots)*maxLoadNum {
		return nil
	}
	newCap := len(m.slots)
	if newCap < minCapacity {
		newCap = minCapacity
	}
	for n*maxLoadDen > newCap*maxLoadNum {
		newCap <<= 1
	}
	m.resize(newCap)
	return nil
}

func (m *Map[K, V]) resize(newCap int) {
	old := m.slots
	m.slots = make([]slot[K, V], newCap)
	m.mask = uint64(newCap - 1)
	m.count = 0
	for i := range old {
		if old[i].dist != 0 {
			m.place(old[i].key, old[i].val, old[i].hash)
		}
	}
}

func (m *Map[K, V]) release(s *slot[K, V]) {
	if m.keyDtor != nil {
		m.keyDtor(s.key)
	}
	if m.valDtor != nil {
		m.valDtor(s.val)
	}
}

// Iter points at one entry of a Map, or is the end sentinel.
type Iter[K, V any] struct {
	m *Map[K, V]
	i int
}

func end[K, V any]() Iter[K, V] {
	return Iter[K, V]{i: -1}
}

// IsEnd reports whether the iterator is the end sentinel.
func (it Iter[K, V]) IsEnd() bool {
	return it.m == nil || it.i < 0 || it.i >= len(it.m.slots)
}

// Key returns the entry key. Must not be called on the end sentinel.
func (it Iter[K, V]) Key() K {
	return it.m.slots[it.i].key
}

// Value returns the entry value. Must not be called on the end sentinel.
func (it Iter[K, V]) Value() V {
	return it.m.slots[it.i].val
}

// SetValue replaces the entry value in place without running destructors.
func (it Iter[K, V]) SetValue(v V) {
	it.m.slots[it.i].val = v
}

// Next returns an iterator to the following entry, or the end sentinel.
func (it Iter[K, V]) Next() Iter[K, V] {
	if it.m == nil {
		return end[K, V]()
	}
	for i := it.i + 1; i < len(it.m.slots); i++ {
		if it.m.slots[i].dist != 0 {
			return Iter[K, V]{m: it.m, i: i}
		}
	}
	return end[K, V]()
}
