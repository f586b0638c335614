package clprimitive

import (
	"crypto/sha256"
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// CredentialValues is the CL-level attribute set: every name the
// credential definition's key covers, mapped to its encoded integer and
// whether it is hidden (known only to the prover, e.g. master_secret) or
// known (revealed to the issuer/verifier during the relevant step).
type CredentialValues map[string]AttributeValue

// AttributeValue is one CL-level attribute: its encoded integer and
// whether it is hidden from the counterparty at this step.
type AttributeValue struct {
	Encoded *big.Int
	Hidden  bool
}

// BlindedCredentialSecrets is the prover's commitment to its hidden
// values, sent to the issuer as part of a credential request.
type BlindedCredentialSecrets struct {
	U *big.Int
}

// CredentialSecretsBlindingFactors is kept by the prover to unblind the
// issuer's signature once received.
type CredentialSecretsBlindingFactors struct {
	VPrime *big.Int
}

// BlindedCredentialSecretsCorrectnessProof lets the issuer verify the
// prover's commitment was honestly formed without learning the hidden
// values.
type BlindedCredentialSecretsCorrectnessProof struct {
	Challenge      *big.Int
	VPrimeResponse *big.Int
	HiddenResponses map[string]*big.Int
}

// BlindCredentialSecrets commits to the hidden attributes in values under
// pub, after checking pub against kcp. nonce binds the commitment to the
// credential offer that produced kcp.
func BlindCredentialSecrets(pub *CredentialPublicKey, kcp *KeyCorrectnessProof, values CredentialValues, nonce *big.Int) (*BlindedCredentialSecrets, *CredentialSecretsBlindingFactors, *BlindedCredentialSecretsCorrectnessProof, error) {
	if err := VerifyKeyCorrectnessProof(pub, kcp); err != nil {
		return nil, nil, nil, err
	}

	hidden := hiddenAttributes(values)
	if len(hidden) == 0 {
		return nil, nil, nil, apperr.New(apperr.Input, "no hidden attributes to blind")
	}

	vPrime, err := randomExponent(pub.N)
	if err != nil {
		return nil, nil, nil, err
	}

	u := modPow(pub.S, vPrime, pub.N)
	for _, name := range hidden {
		ri, ok := pub.R[name]
		if !ok {
			return nil, nil, nil, apperr.New(apperr.Input, "public key missing generator for hidden attribute %q", name)
		}
		u = modMul(u, modPow(ri, values[name].Encoded, pub.N), pub.N)
	}

	tv, err := randomExponent(pub.N)
	if err != nil {
		return nil, nil, nil, err
	}
	tHidden := make(map[string]*big.Int, len(hidden))
	commit := modPow(pub.S, tv, pub.N)
	for _, name := range hidden {
		t, err := randomExponent(pub.N)
		if err != nil {
			return nil, nil, nil, err
		}
		tHidden[name] = t
		commit = modMul(commit, modPow(pub.R[name], t, pub.N), pub.N)
	}

	c := hashBlindingCommitment(pub, u, commit, nonce)
	vResp := new(big.Int).Add(tv, new(big.Int).Mul(c, vPrime))
	hiddenResp := make(map[string]*big.Int, len(hidden))
	for _, name := range hidden {
		hiddenResp[name] = new(big.Int).Add(tHidden[name], new(big.Int).Mul(c, values[name].Encoded))
	}

	return &BlindedCredentialSecrets{U: u},
		&CredentialSecretsBlindingFactors{VPrime: vPrime},
		&BlindedCredentialSecretsCorrectnessProof{Challenge: c, VPrimeResponse: vResp, HiddenResponses: hiddenResp},
		nil
}

// VerifyBlindedCredentialSecretsCorrectness checks the prover's commitment
// proof, given the (public) set of hidden attribute names it should cover.
func VerifyBlindedCredentialSecretsCorrectness(pub *CredentialPublicKey, blinded *BlindedCredentialSecrets, proof *BlindedCredentialSecretsCorrectnessProof, hiddenNames []string, nonce *big.Int) error {
	if proof == nil || blinded == nil {
		return apperr.New(apperr.Input, "missing blinded credential secrets or correctness proof")
	}
	uInv := modInverseOrOne(blinded.U, pub.N)
	commit := modMul(modPow(pub.S, proof.VPrimeResponse, pub.N), modPow(uInv, proof.Challenge, pub.N), pub.N)
	for _, name := range hiddenNames {
		resp, ok := proof.HiddenResponses[name]
		if !ok {
			return apperr.New(apperr.Input, "blinding correctness proof missing response for %q", name)
		}
		commit = modMul(commit, modPow(pub.R[name], resp, pub.N), pub.N)
	}
	c := hashBlindingCommitment(pub, blinded.U, commit, nonce)
	if c.Cmp(proof.Challenge) != 0 {
		return apperr.New(apperr.InvalidState, "blinded credential secrets correctness proof does not verify")
	}
	return nil
}

func hiddenAttributes(values CredentialValues) []string {
	names := make([]string, 0, len(values))
	for name, v := range values {
		if v.Hidden {
			names = append(names, name)
		}
	}
	return names
}

func hashBlindingCommitment(pub *CredentialPublicKey, u, commit, nonce *big.Int) *big.Int {
	h := sha256.New()
	h.Write(pub.N.Bytes())
	h.Write(u.Bytes())
	h.Write(commit.Bytes())
	if nonce != nil {
		h.Write(nonce.Bytes())
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}
