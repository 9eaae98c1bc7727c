package database

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// AccountID represents the identity that is credited with the mining reward
// when a node mines a block.
type AccountID string

// NewAccountID constructs a random account id for a node that has no
// private key configured.
func NewAccountID() AccountID {
	return AccountID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).String())
}

// LoadAccountID reads the ECDSA private key stored at the specified path and
// returns the account id for its public key.
func LoadAccountID(path string) (AccountID, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return "", err
	}

	return PublicKeyToAccountID(privateKey.PublicKey), nil
}
