// Package prover implements the holder-side operations of the credential
// protocol: link secret management, credential requests, signature
// processing, presentation construction, and revocation-state tracking.
package prover

import (
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/logger"
)

// Service implements the prover-side operations over a CL primitive
// provider.
type Service struct {
	cl  clprimitive.Provider
	log *logger.Log
}

func New(cl clprimitive.Provider, log *logger.Log) *Service {
	return &Service{cl: cl, log: log.New("prover")}
}

// CreateLinkSecret draws a fresh link secret from the platform CSPRNG.
func (s *Service) CreateLinkSecret() (*types.LinkSecret, error) {
	return types.NewLinkSecret()
}

// CreateCredentialRequest blinds linkSecret as the hidden master_secret
// attribute and returns the request to send the issuer plus the metadata
// needed to complete ProcessCredential.
func (s *Service) CreateCredentialRequest(proverDid types.DidValue, linkSecretId string, linkSecret *types.LinkSecret, credDef *types.CredentialDefinition, offer *types.CredentialOffer) (*types.CredentialRequest, *types.CredentialRequestMetadata, error) {
	if err := proverDid.Validate(); err != nil {
		return nil, nil, err
	}

	values := clprimitive.CredentialValues{
		clprimitive.MasterSecretName: {Encoded: linkSecret.Value(), Hidden: true},
	}

	blinded, blindingFactors, correctnessProof, err := s.cl.BlindCredentialSecrets(credDef.Value.Primary, offer.KeyCorrectnessProof.Value, values, offer.Nonce.BigInt())
	if err != nil {
		return nil, nil, err
	}

	n, err := types.NewNonce()
	if err != nil {
		return nil, nil, err
	}

	req := &types.CredentialRequest{
		ProverDid:                 proverDid,
		CredDefId:                 offer.CredDefId,
		BlindedMs:                 blinded,
		BlindedMsCorrectnessProof: correctnessProof,
		Nonce:                     n,
	}
	meta := &types.CredentialRequestMetadata{
		MasterSecretBlindingData: blindingFactors,
		Nonce:                    types.NonceFromBigInt(n.BigInt()),
		MasterSecretName:         linkSecretId,
	}

	s.log.Debug("created credential request", "credDefId", string(credDef.Id))
	return req, meta, nil
}

// ProcessCredential unblinds cred's signature in place, verifying the
// correctness proof against linkSecret and metadata.
func (s *Service) ProcessCredential(cred *types.Credential, metadata *types.CredentialRequestMetadata, linkSecret *types.LinkSecret, credDef *types.CredentialDefinition, schema *types.Schema) error {
	if err := cred.ValidateAgainstSchema(schema); err != nil {
		return err
	}

	values := make(clprimitive.CredentialValues, len(cred.Values)+1)
	for name, v := range cred.Values {
		enc, ok := new(big.Int).SetString(v.Encoded, 10)
		if !ok {
			return apperr.New(apperr.Input, "attribute %q has a non-integer encoded value", name)
		}
		values[name] = clprimitive.AttributeValue{Encoded: enc, Hidden: false}
	}
	values[clprimitive.MasterSecretName] = clprimitive.AttributeValue{Encoded: linkSecret.Value(), Hidden: true}

	if err := s.cl.ProcessCredentialSignature(cred.Signature, values, cred.SignatureCorrectnessProof, metadata.MasterSecretBlindingData, credDef.Value.Primary); err != nil {
		return err
	}

	s.log.Debug("processed credential", "credDefId", string(cred.CredDefId))
	return nil
}
