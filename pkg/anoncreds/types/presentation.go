package types

import (
	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
)

// PresentationRequestVersion distinguishes the identifier-qualification
// expectation of a presentation request: V1 requests expect unqualified
// identifiers on the presentation's Identifier entries; V2 expects
// qualified ones.
type PresentationRequestVersion int

const (
	PresentationRequestV1 PresentationRequestVersion = 1
	PresentationRequestV2 PresentationRequestVersion = 2
)

// NonRevokedInterval bounds the epoch at which a credential must not be
// revoked.
type NonRevokedInterval struct {
	From *int64 `json:"from,omitempty"`
	To   *int64 `json:"to,omitempty"`
}

// AttributeInfo is one requested_attributes entry. Exactly one of Name or
// Names must be set.
type AttributeInfo struct {
	Name         string              `json:"name,omitempty"`
	Names        []string            `json:"names,omitempty"`
	Restrictions []map[string]any    `json:"restrictions,omitempty"`
	NonRevoked   *NonRevokedInterval `json:"nonRevoked,omitempty"`
}

func (a AttributeInfo) Validate() error {
	hasName := a.Name != ""
	hasNames := len(a.Names) > 0
	if hasName == hasNames {
		return apperr.New(apperr.Input, "requested attribute must set exactly one of name/names")
	}
	return nil
}

// PredicateInfo is one requested_predicates entry.
type PredicateInfo struct {
	Name         string                     `json:"name"`
	PType        clprimitive.PredicateType  `json:"pType"`
	PValue       int64                      `json:"pValue"`
	Restrictions []map[string]any           `json:"restrictions,omitempty"`
	NonRevoked   *NonRevokedInterval        `json:"nonRevoked,omitempty"`
}

// PresentationRequestPayload is the (version-independent) body of a
// presentation request.
type PresentationRequestPayload struct {
	Nonce                Nonce                    `json:"nonce"`
	Name                 string                   `json:"name"`
	Version              string                   `json:"version"`
	RequestedAttributes  map[string]AttributeInfo `json:"requestedAttributes"`
	RequestedPredicates  map[string]PredicateInfo `json:"requestedPredicates"`
	NonRevoked           *NonRevokedInterval      `json:"nonRevoked,omitempty"`
}

// PresentationRequest pairs a payload with the version that determines
// identifier-qualification expectations.
type PresentationRequest struct {
	PresentationRequestPayload
	RequestVersion PresentationRequestVersion `json:"-"`
}

func (r *PresentationRequest) Qualified() bool {
	return r.RequestVersion == PresentationRequestV2
}

// Identifier is one entry of a Presentation's ordered identifiers list,
// corresponding to sub_proof_index == its position.
type Identifier struct {
	SchemaId  SchemaId               `json:"schemaId"`
	CredDefId CredentialDefinitionId `json:"credDefId"`
	RevRegId  *RevocationRegistryId  `json:"revRegId,omitempty"`
	Timestamp *int64                 `json:"timestamp,omitempty"`
}

// RevealedAttrInfo is one requested_proof.revealed_attrs entry.
type RevealedAttrInfo struct {
	SubProofIndex int    `json:"subProofIndex"`
	Raw           string `json:"raw"`
	Encoded       string `json:"encoded"`
}

// RevealedAttrGroupInfo is one requested_proof.revealed_attr_groups entry.
type RevealedAttrGroupInfo struct {
	SubProofIndex int                         `json:"subProofIndex"`
	Values        map[string]AttributeValue   `json:"values"`
}

// UnrevealedAttrInfo is one requested_proof.unrevealed_attrs entry.
type UnrevealedAttrInfo struct {
	SubProofIndex int `json:"subProofIndex"`
}

// PredicateInfoProof is one requested_proof.predicates entry.
type PredicateInfoProof struct {
	SubProofIndex int `json:"subProofIndex"`
}

// RequestedProof is the presentation's disclosure table.
type RequestedProof struct {
	RevealedAttrs      map[string]RevealedAttrInfo      `json:"revealedAttrs"`
	RevealedAttrGroups map[string]RevealedAttrGroupInfo `json:"revealedAttrGroups"`
	UnrevealedAttrs    map[string]UnrevealedAttrInfo    `json:"unrevealedAttrs"`
	SelfAttestedAttrs  map[string]string                `json:"selfAttestedAttrs"`
	Predicates         map[string]PredicateInfoProof    `json:"predicates"`
}

func NewRequestedProof() RequestedProof {
	return RequestedProof{
		RevealedAttrs:      map[string]RevealedAttrInfo{},
		RevealedAttrGroups: map[string]RevealedAttrGroupInfo{},
		UnrevealedAttrs:    map[string]UnrevealedAttrInfo{},
		SelfAttestedAttrs:  map[string]string{},
		Predicates:         map[string]PredicateInfoProof{},
	}
}

// Presentation is the prover's output: an aggregate proof, a disclosure
// table, and the ordered per-sub-proof identifiers.
type Presentation struct {
	Proof          *clprimitive.Proof `json:"proof"`
	RequestedProof RequestedProof     `json:"requestedProof"`
	Identifiers    []Identifier       `json:"identifiers"`
}
