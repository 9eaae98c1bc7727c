// Package digest provides the hashing functions the blockchain relies on for
// the proof of work puzzle and for linking blocks together.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/big"
)

// ZeroHash represents the previous hash value carried by the genesis block.
const ZeroHash = "0"

// difficulty is the number of leading zero hex characters a proof hash
// must carry to solve the puzzle.
const difficulty = 4

// =============================================================================

// SatisfiesConstraint reports whether the hex digest solves the puzzle. The
// first difficulty characters of the digest must all be '0'.
func SatisfiesConstraint(hash string) bool {
	if len(hash) < difficulty {
		return false
	}

	for i := 0; i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// HashProofs returns the hex digest for a candidate proof paired with the
// previous proof. The value hashed is the base 10 text of
// candidate^2 - previous^2, which carries a leading minus sign when negative.
// Arbitrary precision is used so large proofs received from peers are hashed
// identically on every node.
func HashProofs(candidate int64, previous int64) string {
	c := big.NewInt(candidate)
	p := big.NewInt(previous)

	c.Mul(c, c)
	p.Mul(p, p)
	c.Sub(c, p)

	return Sum([]byte(c.String()))
}

// Hash returns the hex digest of the canonical JSON form of the value. The
// canonical form relies on the value's struct fields being declared in the
// order they must be serialized.
func Hash(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return Sum(data), nil
}

// Sum returns the lowercase hex SHA-256 digest of the data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
