package clprimitive

import "math/big"

// Provider is the adapter surface C3/C4/C5 depend on, matching the
// language-neutral operation list of the component design's CL primitive
// adapter interface. The default implementation is the package-level
// functions in this file's siblings; Provider exists so issuer/prover/
// verifier accept an interface rather than this package's concrete types,
// keeping the protocol-pipeline packages substitutable in tests.
type Provider interface {
	GenerateCredentialDefinitionKeys(attrNames []string) (*CredentialPublicKey, *CredentialPrivateKey, *KeyCorrectnessProof, error)
	GenerateRevocationKeys(seed []byte) (*RevocationPublicKey, *RevocationPrivateKey, error)

	BlindCredentialSecrets(pub *CredentialPublicKey, kcp *KeyCorrectnessProof, values CredentialValues, nonce *big.Int) (*BlindedCredentialSecrets, *CredentialSecretsBlindingFactors, *BlindedCredentialSecretsCorrectnessProof, error)
	SignCredential(values CredentialValues, blinded *BlindedCredentialSecrets, blindedProof *BlindedCredentialSecretsCorrectnessProof, hiddenNames []string, nonce *big.Int, pub *CredentialPublicKey, priv *CredentialPrivateKey, revIdx uint32) (*CredentialSignature, *SignatureCorrectnessProof, error)
	ProcessCredentialSignature(sig *CredentialSignature, values CredentialValues, correctness *SignatureCorrectnessProof, blindingFactors *CredentialSecretsBlindingFactors, pub *CredentialPublicKey) error

	NewProofBuilder() *ProofBuilder
	NewSubProofRequestBuilder() *SubProofRequestBuilder
	NewProofVerifier() *ProofVerifier

	NewWitness(pub *RevocationPublicKey, idx, maxCredNum uint32, issuanceByDefault bool, issued, revoked []uint32, tailsReader TailsReader) (*Witness, error)
	ComputeAccumulator(pub *RevocationPublicKey, active []uint32) *Accumulator
	InitialAccumulator(pub *RevocationPublicKey, maxCredNum uint32, issuanceByDefault bool) *Accumulator
}

// DefaultProvider is the reference Provider implementation, delegating to
// this package's free functions.
type DefaultProvider struct{}

func New() *DefaultProvider { return &DefaultProvider{} }

func (*DefaultProvider) GenerateCredentialDefinitionKeys(attrNames []string) (*CredentialPublicKey, *CredentialPrivateKey, *KeyCorrectnessProof, error) {
	return GenerateCredentialDefinitionKeys(attrNames)
}

func (*DefaultProvider) GenerateRevocationKeys(seed []byte) (*RevocationPublicKey, *RevocationPrivateKey, error) {
	return GenerateRevocationKeys(seed)
}

func (*DefaultProvider) BlindCredentialSecrets(pub *CredentialPublicKey, kcp *KeyCorrectnessProof, values CredentialValues, nonce *big.Int) (*BlindedCredentialSecrets, *CredentialSecretsBlindingFactors, *BlindedCredentialSecretsCorrectnessProof, error) {
	return BlindCredentialSecrets(pub, kcp, values, nonce)
}

func (*DefaultProvider) SignCredential(values CredentialValues, blinded *BlindedCredentialSecrets, blindedProof *BlindedCredentialSecretsCorrectnessProof, hiddenNames []string, nonce *big.Int, pub *CredentialPublicKey, priv *CredentialPrivateKey, revIdx uint32) (*CredentialSignature, *SignatureCorrectnessProof, error) {
	return SignCredential(values, blinded, blindedProof, hiddenNames, nonce, pub, priv, revIdx)
}

func (*DefaultProvider) ProcessCredentialSignature(sig *CredentialSignature, values CredentialValues, correctness *SignatureCorrectnessProof, blindingFactors *CredentialSecretsBlindingFactors, pub *CredentialPublicKey) error {
	return ProcessCredentialSignature(sig, values, correctness, blindingFactors, pub)
}

func (*DefaultProvider) NewProofBuilder() *ProofBuilder { return NewProofBuilder() }

func (*DefaultProvider) NewSubProofRequestBuilder() *SubProofRequestBuilder {
	return NewSubProofRequestBuilder()
}

func (*DefaultProvider) NewProofVerifier() *ProofVerifier { return NewProofVerifier() }

func (*DefaultProvider) NewWitness(pub *RevocationPublicKey, idx, maxCredNum uint32, issuanceByDefault bool, issued, revoked []uint32, tailsReader TailsReader) (*Witness, error) {
	return NewWitness(pub, idx, maxCredNum, issuanceByDefault, issued, revoked, tailsReader)
}

func (*DefaultProvider) ComputeAccumulator(pub *RevocationPublicKey, active []uint32) *Accumulator {
	return ComputeAccumulator(pub, active)
}

func (*DefaultProvider) InitialAccumulator(pub *RevocationPublicKey, maxCredNum uint32, issuanceByDefault bool) *Accumulator {
	return InitialAccumulator(pub, maxCredNum, issuanceByDefault)
}

var _ Provider = (*DefaultProvider)(nil)
