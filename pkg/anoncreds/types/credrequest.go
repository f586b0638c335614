package types

import "anoncreds/pkg/anoncreds/clprimitive"

// CredentialRequest is the prover's response to a CredentialOffer.
type CredentialRequest struct {
	ProverDid                     DidValue                                          `json:"proverDid"`
	CredDefId                     CredentialDefinitionId                            `json:"credDefId"`
	BlindedMs                     *clprimitive.BlindedCredentialSecrets             `json:"blindedMs"`
	BlindedMsCorrectnessProof     *clprimitive.BlindedCredentialSecretsCorrectnessProof `json:"blindedMsCorrectnessProof"`
	Nonce                         Nonce                                             `json:"nonce"`
}

// ToUnqualified returns a copy of r with an unqualified credDefId and
// proverDid. Idempotent.
func (r *CredentialRequest) ToUnqualified() *CredentialRequest {
	cp := *r
	cp.CredDefId = r.CredDefId.ToUnqualified()
	cp.ProverDid = r.ProverDid.ToUnqualified()
	return &cp
}

// CredentialRequestMetadata is kept by the prover to complete
// process_credential once the issuer returns a signed Credential.
type CredentialRequestMetadata struct {
	MasterSecretBlindingData *clprimitive.CredentialSecretsBlindingFactors `json:"masterSecretBlindingData"`
	Nonce                    Nonce                                        `json:"nonce"`
	MasterSecretName         string                                       `json:"masterSecretName"`
}
