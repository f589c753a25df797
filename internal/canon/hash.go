package canon

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainSnapshot = "sweep/snapshot/v1"
	DomainDaily    = "sweep/daily/v1"
)

// sumWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func sumWithDomain(domain string, data []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)

	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash returns the hex SHA-256 fingerprint of v's canonical JSON under domain.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	sum := sumWithDomain(domain, data)
	return hex.EncodeToString(sum[:]), nil
}

// Seed derives a non-negative int64 from v's canonical JSON under domain.
// Equal inputs always yield the same seed.
func Seed(domain string, v any) (int64, error) {
	data, err := Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", domain, err)
	}
	sum := sumWithDomain(domain, data)
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1), nil
}
