package reconcile

import "github.com/spaolacci/murmur3"

// HashScheme selects the id-derivation function used by Stack.Derive.
// Both are real 32-bit string hashes; neither is cryptographic, which
// is fine since node ids are never exposed past this process.
type HashScheme uint8

const (
	// HashJenkins is the default: Bob Jenkins' one-at-a-time hash, the
	// same scheme the teacher's clay.go uses for
	// Clay__HashString/Clay__HashStringWithOffset.
	HashJenkins HashScheme = iota
	// HashMurmur3 is an alternate scheme for callers who want a
	// different collision profile across large scope trees.
	HashMurmur3
)

// jenkinsOneAtATime is Clay__HashStringWithOffset transliterated:
// fold offset and seed in, mix, fold in again. Grounded on clay.go's
// Clay__HashString / Clay__HashStringWithOffset.
func jenkinsOneAtATime(key string, offset, seed uint32) uint32 {
	base := seed
	for i := 0; i < len(key); i++ {
		base += uint32(key[i])
		base += base << 10
		base ^= base >> 6
	}
	hash := base + offset
	hash += hash << 10
	hash ^= hash >> 6
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash + 1 // reserve 0 as "no id"
}

func murmur3Hash(key string, offset, seed uint32) uint32 {
	h := murmur3.Sum32WithSeed([]byte(key), seed)
	h = murmur3.Sum32WithSeed(appendUint32(nil, offset), h)
	if h == 0 {
		h = 1
	}
	return h
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func deriveHash(scheme HashScheme, key string, offset, seed uint32) uint32 {
	switch scheme {
	case HashMurmur3:
		return murmur3Hash(key, offset, seed)
	default:
		return jenkinsOneAtATime(key, offset, seed)
	}
}
