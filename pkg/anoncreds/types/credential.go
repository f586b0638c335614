package types

import (
	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
)

// AttributeValue is one credential attribute's raw (human) form and its
// canonical large-integer encoding. The core neither recomputes nor
// validates the encoding; it trusts the caller-supplied value.
type AttributeValue struct {
	Raw     string `json:"raw"`
	Encoded string `json:"encoded"`
}

// CredentialValues maps attribute name (as supplied, not normalized) to
// its value.
type CredentialValues map[string]AttributeValue

// Lookup retrieves the value for name, matching by normalized name per
// §4.4 (attr_common_view). Returns false when no entry matches.
func (v CredentialValues) Lookup(name string) (AttributeValue, bool) {
	norm := AttrCommonView(name)
	for k, val := range v {
		if AttrCommonView(k) == norm {
			return val, true
		}
	}
	return AttributeValue{}, false
}

// Credential is a signed attribute set bound to one credential definition
// and, optionally, one revocation registry slot.
type Credential struct {
	SchemaId                SchemaId                              `json:"schemaId"`
	CredDefId                CredentialDefinitionId                `json:"credDefId"`
	RevRegId                 *RevocationRegistryId                 `json:"revRegId,omitempty"`
	Values                   CredentialValues                      `json:"values"`
	Signature                *clprimitive.CredentialSignature       `json:"signature"`
	SignatureCorrectnessProof *clprimitive.SignatureCorrectnessProof `json:"signatureCorrectnessProof"`
	RevReg                   *RevocationRegistry                   `json:"revReg,omitempty"`
	Witness                  *clprimitive.Witness                  `json:"witness,omitempty"`
}

// ValidateAgainstSchema enforces the §3 invariant: for every attribute the
// schema declares, Values must contain exactly one entry whose normalized
// name matches.
func (c *Credential) ValidateAgainstSchema(schema *Schema) error {
	for _, declared := range schema.AttrNames {
		if _, ok := c.Values.Lookup(declared); !ok {
			return apperr.New(apperr.Input, "credential is missing schema attribute %q", declared)
		}
	}
	if len(c.Values) != len(schema.AttrNames) {
		return apperr.New(apperr.Input, "credential carries attributes not declared by its schema")
	}
	return nil
}

func (c *Credential) Revocable() bool {
	return c.RevRegId != nil
}
