package clprimitive

import (
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// TailsReader is the capability witness construction needs: random access
// by byte offset/length into a registry's tails file. Implemented by
// pkg/anoncreds/tails.Reader; accepted here as an interface so this
// package never imports the I/O layer.
type TailsReader interface {
	ReadAt(offset, length int64) ([]byte, error)
}

// Witness is accumulator-membership evidence for one revocable credential.
type Witness struct {
	Idx   uint32
	Value *big.Int
}

// NewWitness builds a witness for idx over the active set implied by
// maxCredNum/issuanceByDefault/issued/revoked. tailsReader is accepted for
// interface parity with the component design (§6.2); this construction
// derives slot primes deterministically from the registry's public seed
// rather than reading them from the tails file, so it is not consulted,
// but a nil reader is still rejected to keep the capability contract
// honest for callers that do depend on it.
func NewWitness(pub *RevocationPublicKey, idx, maxCredNum uint32, issuanceByDefault bool, issued, revoked []uint32, tailsReader TailsReader) (*Witness, error) {
	if tailsReader == nil {
		return nil, errNoTailsReader()
	}
	issuedSet := toSet(issued)
	if issuanceByDefault {
		for i := uint32(1); i <= maxCredNum; i++ {
			if _, explicit := issuedSet[i]; !explicit {
				issuedSet[i] = true
			}
		}
	}
	revokedSet := toSet(revoked)
	active := activeSet(maxCredNum, issuedSet, revokedSet)
	return witnessOverActive(pub, idx, active), nil
}

// Update recomputes w's value against the new cumulative issued/revoked
// sets. See the package doc comment for why this is a recompute rather
// than an incremental fold.
func (w *Witness) Update(pub *RevocationPublicKey, maxCredNum uint32, issuanceByDefault bool, issued, revoked []uint32, tailsReader TailsReader) error {
	if tailsReader == nil {
		return errNoTailsReader()
	}
	fresh, err := NewWitness(pub, w.Idx, maxCredNum, issuanceByDefault, issued, revoked, tailsReader)
	if err != nil {
		return err
	}
	w.Value = fresh.Value
	return nil
}

func witnessOverActive(pub *RevocationPublicKey, idx uint32, active []uint32) *Witness {
	exp := big.NewInt(1)
	for _, i := range active {
		if i == idx {
			continue
		}
		exp = new(big.Int).Mul(exp, primeForIndex(pub.Seed, i))
	}
	return &Witness{Idx: idx, Value: modPow(pub.G, exp, pub.N)}
}

// VerifyWitness reports whether w proves membership of its index in acc.
func VerifyWitness(pub *RevocationPublicKey, w *Witness, acc *Accumulator) bool {
	e := primeForIndex(pub.Seed, w.Idx)
	return modPow(w.Value, e, pub.N).Cmp(acc.Value) == 0
}

func errNoTailsReader() error {
	return apperr.New(apperr.Input, "witness construction requires an open tails reader")
}
