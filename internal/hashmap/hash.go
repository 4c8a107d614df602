package hashmap

// FNV-1a 64-bit parameters.
const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// HashBytes computes the 64-bit FNV-1a hash of b.
// Unlike hash/fnv it works on the stack and never allocates.
func HashBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

// HashUint64 mixes an integer key with the 64-bit MurmurHash3 finalizer, so
// that sequential keys spread over the low bits used for slot selection.
func HashUint64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// HashUint32 hashes a 32-bit integer key.
func HashUint32(x uint32) uint64 {
	return HashUint64(uint64(x))
}
