package clprimitive

import (
	"crypto/sha256"
	"math/big"
	"sort"

	"anoncreds/pkg/anoncreds/apperr"
)

type subProofExpectation struct {
	pub         *CredentialPublicKey
	hiddenNames map[string]bool
	revealed    map[string]bool
	commonName  string
	revPub      *RevocationPublicKey
}

// ProofVerifier checks a Proof against the per-credential expectations an
// independently reconstructed SubProofRequest implies.
type ProofVerifier struct {
	expect []subProofExpectation
}

func NewProofVerifier() *ProofVerifier {
	return &ProofVerifier{}
}

// AddSubProofRequest registers the expectation for the sub-proof at the
// next index: the request the verifier independently reconstructed, the
// credential's public key, the full hidden attribute name set, the common
// (link-secret) attribute name if any, and the revocation public key when
// the identifier carries revocation data.
func (v *ProofVerifier) AddSubProofRequest(req *SubProofRequest, pub *CredentialPublicKey, hiddenNames []string, commonName string, revPub *RevocationPublicKey) {
	hidden := make(map[string]bool, len(hiddenNames))
	for _, n := range hiddenNames {
		hidden[n] = true
	}
	revealed := make(map[string]bool, len(req.RevealedAttrs))
	for _, n := range req.RevealedAttrs {
		revealed[n] = true
	}
	v.expect = append(v.expect, subProofExpectation{pub: pub, hiddenNames: hidden, revealed: revealed, commonName: commonName, revPub: revPub})
}

// Verify reports whether proof is internally consistent and binds to
// nonce. A false return is a cryptographic mismatch, never an error; a
// non-nil error reports a structural mismatch against what was registered.
func (v *ProofVerifier) Verify(proof *Proof, nonce *big.Int) (bool, error) {
	if len(proof.SubProofs) != len(v.expect) {
		return false, apperr.New(apperr.Input, "proof carries %d sub-proofs, expected %d", len(proof.SubProofs), len(v.expect))
	}

	h := sha256.New()
	h.Write(nonce.Bytes())
	for i, sp := range proof.SubProofs {
		exp := v.expect[i]
		if err := validateSubProofShape(sp, exp); err != nil {
			return false, err
		}
		h.Write(sp.APrime.Bytes())
		h.Write(sp.CommitE.Bytes())
		h.Write(sp.CommitV.Bytes())
		for _, name := range sortedKeys(sp.HiddenCommits) {
			h.Write([]byte(name))
			h.Write(sp.HiddenCommits[name].Bytes())
		}
	}
	c := new(big.Int).SetBytes(h.Sum(nil))
	if c.Cmp(proof.Challenge) != 0 {
		return false, nil
	}

	var commonResp *big.Int
	for i, sp := range proof.SubProofs {
		exp := v.expect[i]
		ok, err := verifySubProofEquation(sp, exp, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if exp.commonName != "" {
			r := sp.HiddenResps[exp.commonName]
			if commonResp == nil {
				commonResp = r
			} else if commonResp.Cmp(r) != 0 {
				return false, nil
			}
		}
		if ok := verifyPredicates(sp); !ok {
			return false, nil
		}
		if exp.revPub != nil {
			if sp.NonRevocation == nil {
				return false, nil
			}
			acc := &Accumulator{Value: sp.NonRevocation.AccumulatorAt}
			w := &Witness{Idx: sp.NonRevocation.Idx, Value: sp.NonRevocation.WitnessValue}
			if !VerifyWitness(exp.revPub, w, acc) {
				return false, nil
			}
		}
	}
	return true, nil
}

func validateSubProofShape(sp SubProof, exp subProofExpectation) error {
	if len(sp.HiddenCommits) != len(exp.hiddenNames) || len(sp.HiddenResps) != len(exp.hiddenNames) {
		return apperr.New(apperr.Input, "sub-proof hidden attribute set does not match the reconstructed request")
	}
	for name := range exp.hiddenNames {
		if _, ok := sp.HiddenCommits[name]; !ok {
			return apperr.New(apperr.Input, "sub-proof missing commitment for hidden attribute %q", name)
		}
	}
	for name := range exp.revealed {
		if _, ok := sp.RevealedAttrs[name]; !ok {
			return apperr.New(apperr.Input, "sub-proof missing revealed attribute %q", name)
		}
	}
	if len(sp.RevealedAttrs) != len(exp.revealed) {
		return apperr.New(apperr.Input, "sub-proof reveals attributes the reconstructed request did not ask for")
	}
	return nil
}

func verifySubProofEquation(sp SubProof, exp subProofExpectation, c *big.Int) (bool, error) {
	pub := exp.pub
	target := new(big.Int).Set(pub.Z)
	for name, val := range sp.RevealedAttrs {
		ri, ok := pub.R[name]
		if !ok {
			return false, apperr.New(apperr.Input, "public key missing generator for attribute %q", name)
		}
		target = modMul(target, modPow(modInverseOrOne(ri, pub.N), val, pub.N), pub.N)
	}

	lhs := modMul(modPow(sp.APrime, sp.RespE, pub.N), modPow(pub.S, sp.RespV, pub.N), pub.N)
	for name, resp := range sp.HiddenResps {
		ri, ok := pub.R[name]
		if !ok {
			return false, apperr.New(apperr.Input, "public key missing generator for attribute %q", name)
		}
		lhs = modMul(lhs, modPow(ri, resp, pub.N), pub.N)
	}

	rhs := modMul(modMul(sp.CommitE, sp.CommitV, pub.N), modPow(target, c, pub.N), pub.N)
	for _, commit := range sp.HiddenCommits {
		rhs = modMul(rhs, commit, pub.N)
	}

	if lhs.Cmp(rhs) != 0 {
		return false, nil
	}

	for _, pr := range sp.Predicates {
		ri, ok := pub.R[pr.AttrName]
		if !ok {
			return false, apperr.New(apperr.Input, "public key missing generator for predicate attribute %q", pr.AttrName)
		}
		resp, ok := sp.HiddenResps[pr.AttrName]
		if !ok {
			return false, apperr.New(apperr.Input, "sub-proof missing response for predicate attribute %q", pr.AttrName)
		}
		commit, ok := sp.HiddenCommits[pr.AttrName]
		if !ok {
			return false, apperr.New(apperr.Input, "sub-proof missing commitment for predicate attribute %q", pr.AttrName)
		}
		claimed := claimedValue(pr)
		lhs := modPow(ri, resp, pub.N)
		rhs := modMul(commit, modPow(ri, new(big.Int).Mul(c, claimed), pub.N), pub.N)
		if lhs.Cmp(rhs) != 0 {
			return false, nil
		}
	}
	return true, nil
}

func verifyPredicates(sp SubProof) bool {
	for _, pr := range sp.Predicates {
		if pr.Delta == nil || pr.Delta.Sign() < 0 {
			return false
		}
	}
	return true
}

func claimedValue(pr PredicateProof) *big.Int {
	pValue := big.NewInt(pr.PValue)
	switch pr.PType {
	case PredicateGE:
		return new(big.Int).Add(pValue, pr.Delta)
	case PredicateGT:
		return new(big.Int).Add(new(big.Int).Add(pValue, one), pr.Delta)
	case PredicateLE:
		return new(big.Int).Sub(pValue, pr.Delta)
	case PredicateLT:
		return new(big.Int).Sub(new(big.Int).Sub(pValue, one), pr.Delta)
	default:
		return big.NewInt(0)
	}
}

func sortedKeys(m map[string]*big.Int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
