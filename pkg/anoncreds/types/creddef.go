package types

import (
	"strings"

	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
)

// SignatureType enumerates supported credential definition signature
// schemes. CL is the only member; the type exists so the wire format
// carries it explicitly, per the AnonCreds grammar.
type SignatureType string

const SignatureTypeCL SignatureType = "CL"

func (t SignatureType) Validate() error {
	if t != SignatureTypeCL {
		return apperr.New(apperr.Input, "unsupported signature type %q", string(t))
	}
	return nil
}

const CredentialDefinitionVersion1 = "1.0"

// CredentialDefinitionValue is the public key material a credential
// definition carries: the primary (non-revocation) key, and, when the
// definition supports revocation, the accumulator public key.
type CredentialDefinitionValue struct {
	Primary    *clprimitive.CredentialPublicKey  `json:"primary"`
	Revocation *clprimitive.RevocationPublicKey  `json:"revocation,omitempty"`
}

// CredentialDefinition is the "1.0" versioned credential definition record.
type CredentialDefinition struct {
	Ver           string                    `json:"ver"`
	Id            CredentialDefinitionId    `json:"id"`
	SchemaId      SchemaId                  `json:"schemaId"`
	SignatureType SignatureType             `json:"signatureType"`
	Tag           string                    `json:"tag"`
	Value         CredentialDefinitionValue `json:"value"`
}

// CredentialDefinitionPrivate holds the definition's signing private key.
type CredentialDefinitionPrivate struct {
	Value *clprimitive.CredentialPrivateKey `json:"value"`
}

// CredentialKeyCorrectnessProof accompanies a credential definition's
// public part, letting a prover validate it before blinding.
type CredentialKeyCorrectnessProof struct {
	Value *clprimitive.KeyCorrectnessProof `json:"value"`
}

// Clone returns a deep-enough copy suitable for safe sharing across
// concurrent callers of the handle registry.
func (p *CredentialKeyCorrectnessProof) Clone() *CredentialKeyCorrectnessProof {
	cp := *p.Value
	return &CredentialKeyCorrectnessProof{Value: &cp}
}

func (cd *CredentialDefinition) SupportsRevocation() bool {
	return cd.Value.Revocation != nil
}

// ToUnqualified returns a copy of cd with unqualified id and schemaId.
// Idempotent.
func (cd *CredentialDefinition) ToUnqualified() *CredentialDefinition {
	cp := *cd
	cp.Id = cd.Id.ToUnqualified()
	cp.SchemaId = cd.SchemaId.ToUnqualified()
	return &cp
}

// DeriveCredentialDefinitionTag returns a non-empty tag, generating one
// from the schema name when the caller supplies none.
func DeriveCredentialDefinitionTag(tag, schemaName string) string {
	if strings.TrimSpace(tag) != "" {
		return tag
	}
	return "tag-" + strings.ToLower(schemaName)
}
