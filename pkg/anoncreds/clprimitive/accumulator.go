package clprimitive

import (
	"crypto/sha256"
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// accumulatorModulusBits mirrors modulusBits; the accumulator uses its own
// hidden-order RSA modulus, independent of any credential definition's.
const accumulatorModulusBits = 512

// RevocationPublicKey carries the public parameters of a revocation
// registry's accumulator: its modulus, generator, and the seed used to
// deterministically derive one prime per registry slot.
type RevocationPublicKey struct {
	N    *big.Int
	G    *big.Int
	Seed []byte
}

// RevocationPrivateKey is the accumulator modulus's factorization, kept by
// the issuer only.
type RevocationPrivateKey struct {
	P *big.Int
	Q *big.Int
}

// GenerateRevocationKeys builds a fresh accumulator keypair for a
// revocation registry identified by seed (e.g. the registry's id), used to
// derive the per-slot primes deterministically.
func GenerateRevocationKeys(seed []byte) (*RevocationPublicKey, *RevocationPrivateKey, error) {
	p, err := safePrime(accumulatorModulusBits)
	if err != nil {
		return nil, nil, err
	}
	q, err := safePrime(accumulatorModulusBits)
	if err != nil {
		return nil, nil, err
	}
	n := new(big.Int).Mul(p, q)
	g, err := randomQR(n)
	if err != nil {
		return nil, nil, err
	}
	return &RevocationPublicKey{N: n, G: g, Seed: append([]byte(nil), seed...)}, &RevocationPrivateKey{P: p, Q: q}, nil
}

// primeForIndex deterministically derives the prime exponent assigned to
// registry slot idx, by hashing the registry seed and idx until a prime
// candidate of primeSearchBits is found.
const primeSearchBits = 128

func primeForIndex(seed []byte, idx uint32) *big.Int {
	counter := uint32(0)
	for {
		h := sha256.New()
		h.Write(seed)
		h.Write([]byte{byte(idx >> 24), byte(idx >> 16), byte(idx >> 8), byte(idx)})
		h.Write([]byte{byte(counter >> 24), byte(counter >> 16), byte(counter >> 8), byte(counter)})
		sum := h.Sum(nil)
		cand := new(big.Int).SetBytes(sum)
		cand.SetBit(cand, primeSearchBits-1, 1) // force the high bit so the bit length is stable
		cand.SetBit(cand, 0, 1)                 // force odd
		if cand.ProbablyPrime(20) {
			return cand
		}
		counter++
	}
}

// Accumulator is a revocation registry's current public state.
type Accumulator struct {
	Value *big.Int
}

// ComputeAccumulator derives the accumulator value for the active index
// set active (issued minus revoked) under pub.
func ComputeAccumulator(pub *RevocationPublicKey, active []uint32) *Accumulator {
	exp := big.NewInt(1)
	for _, idx := range active {
		exp = new(big.Int).Mul(exp, primeForIndex(pub.Seed, idx))
	}
	return &Accumulator{Value: modPow(pub.G, exp, pub.N)}
}

// InitialAccumulator returns the registry's accumulator at creation time:
// every slot in [1, maxCredNum] for ISSUANCE_BY_DEFAULT, or the empty
// product for ISSUANCE_ON_DEMAND.
func InitialAccumulator(pub *RevocationPublicKey, maxCredNum uint32, issuanceByDefault bool) *Accumulator {
	if !issuanceByDefault {
		return &Accumulator{Value: new(big.Int).Set(pub.G)}
	}
	active := make([]uint32, maxCredNum)
	for i := range active {
		active[i] = uint32(i + 1)
	}
	return ComputeAccumulator(pub, active)
}

func activeSet(maxCredNum uint32, issued, revoked map[uint32]bool) []uint32 {
	active := make([]uint32, 0, maxCredNum)
	for i := uint32(1); i <= maxCredNum; i++ {
		if issued[i] && !revoked[i] {
			active = append(active, i)
		}
	}
	return active
}

func toSet(indices []uint32) map[uint32]bool {
	m := make(map[uint32]bool, len(indices))
	for _, i := range indices {
		m[i] = true
	}
	return m
}

// ValidateIndex checks idx is a legal 1-based slot for a registry sized
// maxCredNum. This is the corrected bounds check (idx >= maxCredNum+1 is
// out of range); the original implementation this library is modeled on
// used a strict "greater than" comparison that let one-past-the-end reads
// through.
func ValidateIndex(idx, maxCredNum uint32) error {
	if idx == 0 || idx > maxCredNum {
		return apperr.New(apperr.Input, "revocation index %d out of range for registry of size %d", idx, maxCredNum)
	}
	return nil
}
