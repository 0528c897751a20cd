package daghash

import "crypto/sha256"

// HashH calculates sha256(b) and returns the resulting bytes as a Hash.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// DoubleHashH calculates sha256(sha256(b)) and returns the resulting bytes
// as a Hash.
func DoubleHashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}

// DoubleHashP calculates sha256(sha256(b)) and returns a pointer to the
// resulting hash.
func DoubleHashP(b []byte) *Hash {
	hash := DoubleHashH(b)
	return &hash
}
