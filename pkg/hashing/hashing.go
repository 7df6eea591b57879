// Package hashing provides hex digests of strings.
// The digests are used as content fingerprints, not for security.
package hashing

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Algorithm names a supported digest.
type Algorithm string

const (
	AlgorithmMD5    Algorithm = "md5"
	AlgorithmSHA1   Algorithm = "sha1"
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmXXHash Algorithm = "xxhash"
)

// ErrUnknownAlgorithm is returned for algorithm names not listed above.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithms returns the supported algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmMD5, AlgorithmSHA1, AlgorithmSHA256, AlgorithmXXHash}
}

// MD5Hex returns the hex-encoded MD5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s)) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// Hex returns the hex-encoded digest of s under algo.
// Algorithm names are case-insensitive.
func Hex(algo Algorithm, s string) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}
	_, _ = h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func newHash(algo Algorithm) (hash.Hash, error) {
	switch Algorithm(strings.ToLower(string(algo))) {
	case AlgorithmMD5:
		return md5.New(), nil // #nosec G401
	case AlgorithmSHA1:
		return sha1.New(), nil // #nosec G401
	case AlgorithmSHA256:
		return sha256.New(), nil
	case AlgorithmXXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}
