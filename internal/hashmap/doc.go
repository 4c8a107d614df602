// Package hashmap provides a generic open-addressing hash table.
//
// Map[K, V] uses robin-hood linear probing over a power-of-two slot array.
// Deletion shifts following entries backwards instead of leaving tombstones,
// so probe sequences never degrade with churn. The table grows by doubling
// when the load factor exceeds 7/8 and never shrinks on its own.
//
// Keys are hashed and compared with caller-supplied functions, which lets
// the table hold keys Go's builtin map cannot (byte slices, for example):
//
//	m := hashmap.New[[]byte, int](hashmap.HashBytes, bytes.Equal)
//	it, inserted, err := m.GetOrInsert([]byte("key"), 1)
//
// Optional destructors run when an entry is overwritten, erased, cleared or
// released by Cleanup.
//
// # Thread Safety
//
// Map is not safe for concurrent use.
package hashmap
