package clprimitive

import (
	"crypto/sha256"
	"math/big"
	"sort"

	"anoncreds/pkg/anoncreds/apperr"
)

// PredicateProof is the (simplified, see package doc) proof that a hidden
// attribute satisfies an inequality: Delta, the signed gap to the
// threshold, is revealed; the attribute's own value is not.
type PredicateProof struct {
	AttrName string
	PType    PredicateType
	PValue   int64
	Delta    *big.Int
}

// NonRevocationProof is the (simplified, see package doc) evidence that a
// credential's revocation index is a current member of its registry's
// accumulator.
type NonRevocationProof struct {
	Idx           uint32
	WitnessValue  *big.Int
	AccumulatorAt *big.Int
}

// SubProof is one credential's contribution to an aggregate Proof.
type SubProof struct {
	APrime        *big.Int
	RevealedAttrs map[string]*big.Int
	CommitE       *big.Int
	CommitV       *big.Int
	HiddenCommits map[string]*big.Int
	RespE         *big.Int
	RespV         *big.Int
	HiddenResps   map[string]*big.Int
	Predicates    []PredicateProof
	NonRevocation *NonRevocationProof
}

// Proof is the aggregate zero-knowledge proof over every credential a
// presentation draws from, bound together by a single Fiat-Shamir
// challenge and, when AddCommonAttribute was used, a shared response for
// the common attribute (the link secret) across every sub-proof.
type Proof struct {
	SubProofs []SubProof
	Challenge *big.Int
}

type revocationInput struct {
	pub    *RevocationPublicKey
	idx    uint32
	w      *Witness
	accVal *big.Int
}

type pendingSubProof struct {
	pub           *CredentialPublicKey
	revealedNames []string
	hiddenNames   []string
	values        CredentialValues
	predicates    []PredicateRequest
	r             *big.Int
	aPrime        *big.Int
	eBlind        *big.Int
	vBlind        *big.Int
	hiddenBlinds  map[string]*big.Int
	e             *big.Int
	v2            *big.Int
	rev           *revocationInput
}

// ProofBuilder assembles a Proof across one or more credentials.
type ProofBuilder struct {
	commonAttrName string
	commonBlind    *big.Int
	pending        []*pendingSubProof
}

func NewProofBuilder() *ProofBuilder {
	return &ProofBuilder{}
}

// AddCommonAttribute seeds the builder with a hidden attribute whose
// blinding is shared across every sub-proof added afterward, binding them
// to the same underlying value (the link secret). Must be called before
// the first AddSubProofRequest.
func (b *ProofBuilder) AddCommonAttribute(name string) error {
	if len(b.pending) > 0 {
		return apperr.New(apperr.InvalidState, "common attribute must be set before any sub-proof is added")
	}
	blind, err := randomExponent(commonAttributeBound)
	if err != nil {
		return err
	}
	b.commonAttrName = name
	b.commonBlind = blind
	return nil
}

// commonAttributeBound is a fixed, generously large bound for the common
// attribute's blinding value, independent of any single credential
// definition's modulus, since the same blinding is reused across
// sub-proofs that may carry different moduli.
var commonAttributeBound = new(big.Int).Lsh(big.NewInt(1), 2048)

// RevocationEntry supplies the witness/accumulator material for a
// sub-proof whose credential is revocable and whose presentation entry
// carries a revocation state.
type RevocationEntry struct {
	Pub       *RevocationPublicKey
	Witness   *Witness
	Accum     *Accumulator
}

// AddSubProofRequest registers one credential's contribution. values must
// contain every attribute the credential's public key covers (including
// the common attribute, if any), each tagged Hidden appropriately:
// revealed attributes (req.RevealedAttrs) must be Hidden=false; every
// other attribute, including those named by req.Predicates, must be
// Hidden=true.
func (b *ProofBuilder) AddSubProofRequest(req *SubProofRequest, sig *CredentialSignature, pub *CredentialPublicKey, values CredentialValues, rev *RevocationEntry) error {
	revealedSet := make(map[string]bool, len(req.RevealedAttrs))
	for _, n := range req.RevealedAttrs {
		revealedSet[n] = true
	}
	var hiddenNames []string
	for name, v := range values {
		if v.Hidden {
			hiddenNames = append(hiddenNames, name)
		} else if !revealedSet[name] {
			return apperr.New(apperr.Input, "attribute %q is neither revealed nor hidden", name)
		}
	}
	for _, n := range req.RevealedAttrs {
		if v, ok := values[n]; !ok || v.Hidden {
			return apperr.New(apperr.Input, "revealed attribute %q missing from credential values", n)
		}
	}
	sort.Strings(hiddenNames)

	r, err := randomExponent(pub.N)
	if err != nil {
		return err
	}
	aPrime := modMul(sig.A, modPow(pub.S, r, pub.N), pub.N)
	eBlind, err := randomExponent(pub.N)
	if err != nil {
		return err
	}
	vBlind, err := randomExponent(pub.N)
	if err != nil {
		return err
	}

	hiddenBlinds := make(map[string]*big.Int, len(hiddenNames))
	for _, name := range hiddenNames {
		if name == b.commonAttrName {
			hiddenBlinds[name] = b.commonBlind
			continue
		}
		blind, err := randomExponent(pub.N)
		if err != nil {
			return err
		}
		hiddenBlinds[name] = blind
	}

	v2 := new(big.Int).Sub(sig.V, new(big.Int).Mul(r, sig.E))

	var revIn *revocationInput
	if rev != nil {
		revIn = &revocationInput{pub: rev.Pub, idx: rev.Witness.Idx, w: rev.Witness, accVal: rev.Accum.Value}
	}

	b.pending = append(b.pending, &pendingSubProof{
		pub:           pub,
		revealedNames: append([]string(nil), req.RevealedAttrs...),
		hiddenNames:   hiddenNames,
		values:        values,
		predicates:    append([]PredicateRequest(nil), req.Predicates...),
		r:             r,
		aPrime:        aPrime,
		eBlind:        eBlind,
		vBlind:        vBlind,
		hiddenBlinds:  hiddenBlinds,
		e:             sig.E,
		v2:            v2,
		rev:           revIn,
	})
	return nil
}

// Finalize computes the shared challenge and every sub-proof's responses,
// binding the whole proof to nonce. A builder with no sub-proofs added is
// valid: it yields an empty proof that still binds to nonce, for
// presentations answered entirely by self-attested attributes.
func (b *ProofBuilder) Finalize(nonce *big.Int) (*Proof, error) {
	commitV := make([]*big.Int, len(b.pending))
	for i, p := range b.pending {
		commitV[i] = modPow(p.pub.S, p.vBlind, p.pub.N)
	}

	h := sha256.New()
	h.Write(nonce.Bytes())
	commitEs := make([]*big.Int, len(b.pending))
	hiddenCommitsAll := make([]map[string]*big.Int, len(b.pending))
	for i, p := range b.pending {
		commitEs[i] = modPow(p.aPrime, p.eBlind, p.pub.N)
		hc := make(map[string]*big.Int, len(p.hiddenNames))
		for _, name := range p.hiddenNames {
			hc[name] = modPow(p.pub.R[name], p.hiddenBlinds[name], p.pub.N)
		}
		hiddenCommitsAll[i] = hc

		h.Write(p.aPrime.Bytes())
		h.Write(commitEs[i].Bytes())
		h.Write(commitV[i].Bytes())
		for _, name := range p.hiddenNames {
			h.Write([]byte(name))
			h.Write(hc[name].Bytes())
		}
	}
	c := new(big.Int).SetBytes(h.Sum(nil))

	subProofs := make([]SubProof, len(b.pending))
	for i, p := range b.pending {
		respE := new(big.Int).Add(p.eBlind, new(big.Int).Mul(c, p.e))
		respV := new(big.Int).Add(p.vBlind, new(big.Int).Mul(c, p.v2))
		hiddenResps := make(map[string]*big.Int, len(p.hiddenNames))
		for _, name := range p.hiddenNames {
			hiddenResps[name] = new(big.Int).Add(p.hiddenBlinds[name], new(big.Int).Mul(c, p.values[name].Encoded))
		}

		revealed := make(map[string]*big.Int, len(p.revealedNames))
		for _, name := range p.revealedNames {
			revealed[name] = p.values[name].Encoded
		}

		predicates := make([]PredicateProof, 0, len(p.predicates))
		for _, pr := range p.predicates {
			val, ok := p.values[pr.AttrName]
			if !ok {
				return nil, apperr.New(apperr.Input, "predicate references unknown attribute %q", pr.AttrName)
			}
			delta, err := predicateDelta(pr, val.Encoded)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, PredicateProof{AttrName: pr.AttrName, PType: pr.PType, PValue: pr.PValue, Delta: delta})
		}

		var nonRev *NonRevocationProof
		if p.rev != nil {
			nonRev = &NonRevocationProof{Idx: p.rev.idx, WitnessValue: p.rev.w.Value, AccumulatorAt: p.rev.accVal}
		}

		subProofs[i] = SubProof{
			APrime:        p.aPrime,
			RevealedAttrs: revealed,
			CommitE:       commitEs[i],
			CommitV:       commitV[i],
			HiddenCommits: hiddenCommitsAll[i],
			RespE:         respE,
			RespV:         respV,
			HiddenResps:   hiddenResps,
			Predicates:    predicates,
			NonRevocation: nonRev,
		}
	}

	return &Proof{SubProofs: subProofs, Challenge: c}, nil
}

func predicateDelta(pr PredicateRequest, value *big.Int) (*big.Int, error) {
	pValue := big.NewInt(pr.PValue)
	var delta *big.Int
	switch pr.PType {
	case PredicateGE:
		delta = new(big.Int).Sub(value, pValue)
	case PredicateGT:
		delta = new(big.Int).Sub(value, new(big.Int).Add(pValue, one))
	case PredicateLE:
		delta = new(big.Int).Sub(pValue, value)
	case PredicateLT:
		delta = new(big.Int).Sub(new(big.Int).Sub(pValue, one), value)
	default:
		return nil, apperr.New(apperr.Input, "unknown predicate type %q", pr.PType)
	}
	if delta.Sign() < 0 {
		return nil, apperr.New(apperr.InvalidState, "attribute %q does not satisfy predicate %s %d", pr.AttrName, pr.PType, pr.PValue)
	}
	return delta, nil
}
