package types

// CredentialOffer is issued by an issuer to start a credential-request
// round-trip with a prover. Its nonce is single-use.
type CredentialOffer struct {
	SchemaId            SchemaId                       `json:"schemaId"`
	CredDefId           CredentialDefinitionId         `json:"credDefId"`
	KeyCorrectnessProof *CredentialKeyCorrectnessProof `json:"keyCorrectnessProof"`
	Nonce               Nonce                          `json:"nonce"`
}

// NewCredentialOffer builds a fresh offer with a freshly generated nonce.
func NewCredentialOffer(schemaId SchemaId, credDefId CredentialDefinitionId, kcp *CredentialKeyCorrectnessProof) (*CredentialOffer, error) {
	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}
	return &CredentialOffer{SchemaId: schemaId, CredDefId: credDefId, KeyCorrectnessProof: kcp, Nonce: nonce}, nil
}
