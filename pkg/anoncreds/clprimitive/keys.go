package clprimitive

import (
	"crypto/sha256"
	"math/big"
	"sort"

	"anoncreds/pkg/anoncreds/apperr"
)

// MasterSecretName is the fixed attribute name under which a prover's link
// secret is bound into every credential as a hidden value.
const MasterSecretName = "master_secret"

// CredentialPublicKey is the public half of a credential definition's
// signing key: an RSA-like modulus and per-attribute generators.
type CredentialPublicKey struct {
	N        *big.Int            // hidden-order modulus
	S        *big.Int            // generator of the group of quadratic residues
	Z        *big.Int            // S^z, binds the signature equation
	R        map[string]*big.Int // S^x_i, one generator per attribute (including master_secret)
	AttrOrder []string           // stable ordering of R's keys
}

// CredentialPrivateKey is the private half: the modulus factorization.
type CredentialPrivateKey struct {
	P *big.Int
	Q *big.Int
}

func (priv *CredentialPrivateKey) phi(n *big.Int) *big.Int {
	pm1 := new(big.Int).Sub(priv.P, one)
	qm1 := new(big.Int).Sub(priv.Q, one)
	return new(big.Int).Mul(pm1, qm1)
}

// KeyCorrectnessProof lets a prover check that Z and every R_i were
// honestly derived from S under the same public key, without learning the
// discrete logs involved.
type KeyCorrectnessProof struct {
	Challenge *big.Int
	ZResponse *big.Int
	RResponses map[string]*big.Int
}

type keyExponents struct {
	z *big.Int
	x map[string]*big.Int
}

// GenerateCredentialDefinitionKeys builds a fresh signing key for a
// credential definition over attrNames (schema attributes; master_secret
// is added implicitly). It takes no revocation flag: the revocation
// accumulator keys are generated separately by GenerateRevocationKeys
// since they are per-registry, not per-cred-def.
func GenerateCredentialDefinitionKeys(attrNames []string) (*CredentialPublicKey, *CredentialPrivateKey, *KeyCorrectnessProof, error) {
	p, err := safePrime(modulusBits)
	if err != nil {
		return nil, nil, nil, err
	}
	q, err := safePrime(modulusBits)
	if err != nil {
		return nil, nil, nil, err
	}
	n := new(big.Int).Mul(p, q)
	priv := &CredentialPrivateKey{P: p, Q: q}
	phi := priv.phi(n)

	s, err := randomQR(n)
	if err != nil {
		return nil, nil, nil, err
	}

	names := append([]string{MasterSecretName}, attrNames...)
	sort.Strings(names)

	exps := keyExponents{x: make(map[string]*big.Int, len(names))}
	zExp, err := randomExponent(phi)
	if err != nil {
		return nil, nil, nil, err
	}
	exps.z = zExp

	r := make(map[string]*big.Int, len(names))
	for _, name := range names {
		xi, err := randomExponent(phi)
		if err != nil {
			return nil, nil, nil, err
		}
		exps.x[name] = xi
		r[name] = modPow(s, xi, n)
	}
	z := modPow(s, zExp, n)

	pub := &CredentialPublicKey{N: n, S: s, Z: z, R: r, AttrOrder: names}
	proof, err := proveKeyCorrectness(pub, &exps, phi)
	if err != nil {
		return nil, nil, nil, err
	}
	return pub, priv, proof, nil
}

func proveKeyCorrectness(pub *CredentialPublicKey, exps *keyExponents, phi *big.Int) (*KeyCorrectnessProof, error) {
	tz, err := randomExponent(phi)
	if err != nil {
		return nil, err
	}
	commitZ := modPow(pub.S, tz, pub.N)

	tx := make(map[string]*big.Int, len(pub.AttrOrder))
	commits := make(map[string]*big.Int, len(pub.AttrOrder))
	for _, name := range pub.AttrOrder {
		t, err := randomExponent(phi)
		if err != nil {
			return nil, err
		}
		tx[name] = t
		commits[name] = modPow(pub.S, t, pub.N)
	}

	c := hashKeyCorrectness(pub, commitZ, commits)

	zResp := new(big.Int).Add(tz, new(big.Int).Mul(c, exps.z))
	rResp := make(map[string]*big.Int, len(pub.AttrOrder))
	for _, name := range pub.AttrOrder {
		rResp[name] = new(big.Int).Add(tx[name], new(big.Int).Mul(c, exps.x[name]))
	}
	return &KeyCorrectnessProof{Challenge: c, ZResponse: zResp, RResponses: rResp}, nil
}

// VerifyKeyCorrectnessProof checks that pub.Z and every pub.R[i] were
// honestly formed relative to pub.S under the claimed proof.
func VerifyKeyCorrectnessProof(pub *CredentialPublicKey, proof *KeyCorrectnessProof) error {
	if proof == nil {
		return apperr.New(apperr.Input, "missing key correctness proof")
	}
	commitZ := modMul(modPow(pub.S, proof.ZResponse, pub.N), modPow(modInverseOrOne(pub.Z, pub.N), proof.Challenge, pub.N), pub.N)

	commits := make(map[string]*big.Int, len(pub.AttrOrder))
	for _, name := range pub.AttrOrder {
		resp, ok := proof.RResponses[name]
		if !ok {
			return apperr.New(apperr.Input, "key correctness proof missing response for attribute %q", name)
		}
		ri, ok := pub.R[name]
		if !ok {
			return apperr.New(apperr.Input, "public key missing generator for attribute %q", name)
		}
		commits[name] = modMul(modPow(pub.S, resp, pub.N), modPow(modInverseOrOne(ri, pub.N), proof.Challenge, pub.N), pub.N)
	}

	c := hashKeyCorrectness(pub, commitZ, commits)
	if c.Cmp(proof.Challenge) != 0 {
		return apperr.New(apperr.InvalidState, "key correctness proof does not verify")
	}
	return nil
}

func modInverseOrOne(v, n *big.Int) *big.Int {
	inv := new(big.Int).ModInverse(v, n)
	if inv == nil {
		return big.NewInt(1)
	}
	return inv
}

func hashKeyCorrectness(pub *CredentialPublicKey, commitZ *big.Int, commits map[string]*big.Int) *big.Int {
	h := sha256.New()
	h.Write(pub.N.Bytes())
	h.Write(pub.S.Bytes())
	h.Write(pub.Z.Bytes())
	h.Write(commitZ.Bytes())
	for _, name := range pub.AttrOrder {
		h.Write([]byte(name))
		h.Write(pub.R[name].Bytes())
		h.Write(commits[name].Bytes())
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}
