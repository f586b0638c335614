package clprimitive

import (
	"crypto/rand"
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// modulusBits is the bit-length of each RSA safe prime factor used for a
// credential definition's hidden-order group. Reduced from production CL
// parameters (2048-bit primes) for the reference implementation's runtime
// cost; the construction is otherwise the same strong-RSA-assumption
// group CL signatures rely on.
const modulusBits = 512

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// safePrime returns a random prime p of the given bit length such that
// (p-1)/2 is also prime.
func safePrime(bits int) (*big.Int, error) {
	for {
		q, err := rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, apperr.Wrap(apperr.Unexpected, err, "generating safe prime")
		}
		p := new(big.Int).Mul(q, two)
		p.Add(p, one)
		if p.ProbablyPrime(32) {
			return p, nil
		}
	}
}

// randomBelow returns a uniformly random value in [0, n).
func randomBelow(n *big.Int) (*big.Int, error) {
	v, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "generating random value")
	}
	return v, nil
}

// randomQR returns a random quadratic residue modulo n.
func randomQR(n *big.Int) (*big.Int, error) {
	base, err := randomBelow(n)
	if err != nil {
		return nil, err
	}
	base.Mod(base, n)
	if base.Sign() == 0 {
		base.SetInt64(2)
	}
	return new(big.Int).Exp(base, two, n), nil
}

// randomExponent returns a random exponent in [1, bound).
func randomExponent(bound *big.Int) (*big.Int, error) {
	v, err := randomBelow(bound)
	if err != nil {
		return nil, err
	}
	if v.Sign() == 0 {
		v.SetInt64(1)
	}
	return v, nil
}

func modPow(base, exp, mod *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, mod)
}

func modMul(a, b, mod *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), mod)
}

func modInverse(a, mod *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, mod)
	if inv == nil {
		return nil, apperr.New(apperr.Unexpected, "no modular inverse exists")
	}
	return inv, nil
}
