package types

import (
	"crypto/rand"
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

func newRandomBelowPow2(bits int) (*big.Int, error) {
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return rand.Int(rand.Reader, max)
}

// linkSecretBits is the bit-length of a freshly generated link secret.
const linkSecretBits = 256

// LinkSecret is a prover-controlled value bound into every credential as
// the hidden "master_secret" attribute, created once per holder and
// reused across all credentials. Never serialized in a presentation;
// callers must exclude it from log output (see apperr and logger usage
// conventions).
type LinkSecret struct {
	value *big.Int
}

// NewLinkSecret draws a fresh link secret from the platform CSPRNG.
func NewLinkSecret() (*LinkSecret, error) {
	n, err := newRandomBelowPow2(linkSecretBits)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "generating link secret")
	}
	return &LinkSecret{value: n}, nil
}

// Value returns the underlying integer. Callers must not log it.
func (l *LinkSecret) Value() *big.Int {
	return new(big.Int).Set(l.value)
}

// String intentionally omits the secret value: link secrets must never
// appear in stringified diagnostics.
func (l *LinkSecret) String() string {
	return "LinkSecret(redacted)"
}

func (l *LinkSecret) MarshalJSON() ([]byte, error) {
	return nil, apperr.New(apperr.Input, "link secrets are not serialized")
}
