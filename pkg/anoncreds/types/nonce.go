package types

import (
	"crypto/rand"
	"encoding/json"
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// nonceBits is the bit-length of freshly generated nonces. Large enough
// that two independently generated nonces never collide in practice.
const nonceBits = 160

// Nonce is a single-use challenge value, encoded on the wire as a decimal
// string per the wire-format contract (§6.1).
type Nonce struct {
	v *big.Int
}

// NewNonce draws a fresh nonce from the platform CSPRNG.
func NewNonce() (Nonce, error) {
	max := new(big.Int).Lsh(big.NewInt(1), nonceBits)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return Nonce{}, apperr.Wrap(apperr.Unexpected, err, "generating nonce")
	}
	return Nonce{v: n}, nil
}

// NonceFromBigInt wraps an existing value as a Nonce, e.g. when cloning.
func NonceFromBigInt(v *big.Int) Nonce {
	return Nonce{v: new(big.Int).Set(v)}
}

// BigInt returns the nonce's underlying integer. The returned value must
// not be mutated.
func (n Nonce) BigInt() *big.Int {
	if n.v == nil {
		return big.NewInt(0)
	}
	return n.v
}

// Equal reports whether n and o carry the same value.
func (n Nonce) Equal(o Nonce) bool {
	return n.BigInt().Cmp(o.BigInt()) == 0
}

func (n Nonce) String() string {
	return n.BigInt().String()
}

func (n Nonce) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.BigInt().String())
}

func (n *Nonce) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return apperr.New(apperr.Input, "invalid nonce %q", s)
	}
	n.v = v
	return nil
}
