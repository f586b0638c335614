package clprimitive

import (
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// ProcessCredentialSignature unblinds sig in place: it folds the prover's
// blinding factor into sig.V and checks the resulting signature against
// the full attribute set (including the now-revealed-to-the-prover hidden
// attributes such as master_secret) and pub. Returns InvalidState if the
// signature does not verify.
func ProcessCredentialSignature(sig *CredentialSignature, values CredentialValues, correctness *SignatureCorrectnessProof, blindingFactors *CredentialSecretsBlindingFactors, pub *CredentialPublicKey) error {
	if correctness == nil || !correctness.SignatureEquationHolds {
		return apperr.New(apperr.InvalidState, "credential signature correctness proof does not hold")
	}
	if sig == nil || blindingFactors == nil {
		return apperr.New(apperr.Input, "missing signature or blinding factors")
	}

	vTotal := new(big.Int).Add(blindingFactors.VPrime, sig.V)

	// A^e * S^v * prod(R^m) must equal Z, the standard AnonCreds/CL
	// signature relation (all attributes, hidden and known, now known to
	// the prover).
	lhs := modPow(sig.A, sig.E, pub.N)
	lhs = modMul(lhs, modPow(pub.S, vTotal, pub.N), pub.N)
	for name, av := range values {
		ri, ok := pub.R[name]
		if !ok {
			return apperr.New(apperr.Input, "public key missing generator for attribute %q", name)
		}
		lhs = modMul(lhs, modPow(ri, av.Encoded, pub.N), pub.N)
	}

	if lhs.Cmp(pub.Z) != 0 {
		return apperr.New(apperr.InvalidState, "unblinded credential signature does not verify")
	}

	sig.V = vTotal
	return nil
}
