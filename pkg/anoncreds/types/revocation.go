package types

import (
	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
)

// RegistryType enumerates supported revocation registry accumulator
// schemes. CL_ACCUM is the only member.
type RegistryType string

const RegistryTypeCLAccum RegistryType = "CL_ACCUM"

func RegistryTypeFromString(s string) (RegistryType, error) {
	if s != string(RegistryTypeCLAccum) {
		return "", apperr.New(apperr.Input, "unsupported registry type %q", s)
	}
	return RegistryTypeCLAccum, nil
}

func (t RegistryType) Validate() error {
	_, err := RegistryTypeFromString(string(t))
	return err
}

// IssuanceType controls a revocation registry's initial accumulator state.
type IssuanceType string

const (
	IssuanceByDefault IssuanceType = "ISSUANCE_BY_DEFAULT"
	IssuanceOnDemand  IssuanceType = "ISSUANCE_ON_DEMAND"
)

func IssuanceTypeFromString(s string) (IssuanceType, error) {
	switch IssuanceType(s) {
	case IssuanceByDefault, IssuanceOnDemand:
		return IssuanceType(s), nil
	default:
		return "", apperr.New(apperr.Input, "unsupported issuance type %q", s)
	}
}

func (t IssuanceType) Validate() error {
	_, err := IssuanceTypeFromString(string(t))
	return err
}

// ToBool renders the issuance type as the "issuance by default" flag C1's
// witness construction expects.
func (t IssuanceType) ToBool() bool {
	return t == IssuanceByDefault
}

const RevocationRegistryDefinitionVersion1 = "1.0"

type RevocationRegistryPublicKeys struct {
	AccumKey *clprimitive.RevocationPublicKey `json:"accumKey"`
}

type RevocationRegistryDefinitionValue struct {
	IssuanceType IssuanceType                 `json:"issuanceType"`
	MaxCredNum   uint32                       `json:"maxCredNum"`
	PublicKeys   RevocationRegistryPublicKeys `json:"publicKeys"`
	TailsHash    string                       `json:"tailsHash"`
	TailsLocation string                      `json:"tailsLocation"`
}

// RevocationRegistryDefinition is the "1.0" versioned revocation registry
// definition record.
type RevocationRegistryDefinition struct {
	Ver         string                            `json:"ver"`
	Id          RevocationRegistryId              `json:"id"`
	RevocDefType RegistryType                     `json:"revocDefType"`
	Tag         string                            `json:"tag"`
	CredDefId   CredentialDefinitionId            `json:"credDefId"`
	Value       RevocationRegistryDefinitionValue `json:"value"`
}

func (d *RevocationRegistryDefinition) ToUnqualified() *RevocationRegistryDefinition {
	cp := *d
	cp.Id = d.Id.ToUnqualified()
	cp.CredDefId = d.CredDefId.ToUnqualified()
	return &cp
}

// RevocationRegistryDefinitionPrivate holds the accumulator's private key.
type RevocationRegistryDefinitionPrivate struct {
	Value *clprimitive.RevocationPrivateKey `json:"value"`
}

// RevocationRegistry is the current accumulator value.
type RevocationRegistry struct {
	Accum *clprimitive.Accumulator `json:"accumValue"`
}

// RevocationRegistryDelta tracks a registry's cumulative issued/revoked
// index sets, the mechanism that makes revoke_credential/recover_credential
// idempotence checkable: revoking an index already in Revoked, or
// recovering one already absent from it, is a no-op.
type RevocationRegistryDelta struct {
	PrevAccum *clprimitive.Accumulator `json:"prevAccum,omitempty"`
	Accum     *clprimitive.Accumulator `json:"accum"`
	Issued    map[uint32]bool          `json:"issued"`
	Revoked   map[uint32]bool          `json:"revoked"`
}

// IssuedIndices and RevokedIndices return the delta's sets as slices,
// the shape C1's accumulator/witness functions consume.
func (d *RevocationRegistryDelta) IssuedIndices() []uint32 {
	return setToSlice(d.Issued)
}

func (d *RevocationRegistryDelta) RevokedIndices() []uint32 {
	return setToSlice(d.Revoked)
}

func setToSlice(m map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	return out
}

// CredentialRevocationState is bound to exactly one credential index.
type CredentialRevocationState struct {
	Witness   *clprimitive.Witness     `json:"witness"`
	RevReg    *RevocationRegistry      `json:"revReg"`
	Timestamp int64                    `json:"timestamp"`
}
