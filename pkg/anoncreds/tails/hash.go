// Package tails implements the append-only tails-file writer and
// random-access reader the revocation-state pipeline depends on.
package tails

import (
	"crypto/sha256"

	"github.com/multiformats/go-multibase"
)

// hashContents returns base58(sha256(contents)), the tails_hash encoding
// used by revocation registry definitions. github.com/multiformats/
// go-multibase already carries a base58btc codec; its 'z' multibase
// identifier prefix is stripped here since AnonCreds's tails_hash is
// plain base58, not multibase-prefixed.
func hashContents(contents []byte) (string, error) {
	sum := sha256.Sum256(contents)
	encoded, err := multibase.Encode(multibase.Base58BTC, sum[:])
	if err != nil {
		return "", err
	}
	return encoded[1:], nil
}
