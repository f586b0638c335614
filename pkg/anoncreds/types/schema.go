package types

import (
	"anoncreds/pkg/anoncreds/apperr"
)

// Schema is the "1.0" versioned schema record. Immutable once published.
type Schema struct {
	Ver       string   `json:"ver"`
	Id        SchemaId `json:"id"`
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	AttrNames []string `json:"attrNames"`
	SeqNo     *int64   `json:"seqNo,omitempty"`
}

const SchemaVersion1 = "1.0"

// NewSchema validates attrNames (non-empty, unique after normalization)
// and builds a Schema with a freshly derived id.
func NewSchema(originDid DidValue, name, version string, attrNames []string, qualified bool) (*Schema, error) {
	if err := originDid.Validate(); err != nil {
		return nil, err
	}
	if len(attrNames) == 0 {
		return nil, apperr.New(apperr.Input, "schema must declare at least one attribute")
	}
	seen := make(map[string]bool, len(attrNames))
	for _, a := range attrNames {
		norm := AttrCommonView(a)
		if norm == "" {
			return nil, apperr.New(apperr.Input, "attribute name %q normalizes to empty", a)
		}
		if seen[norm] {
			return nil, apperr.New(apperr.Input, "duplicate attribute name %q after normalization", a)
		}
		seen[norm] = true
	}
	return &Schema{
		Ver:       SchemaVersion1,
		Id:        NewSchemaId(originDid, name, version, qualified),
		Name:      name,
		Version:   version,
		AttrNames: append([]string(nil), attrNames...),
	}, nil
}

// HasAttribute reports whether name (before normalization) matches one of
// s's declared attributes, by normalized comparison.
func (s *Schema) HasAttribute(name string) bool {
	norm := AttrCommonView(name)
	for _, a := range s.AttrNames {
		if AttrCommonView(a) == norm {
			return true
		}
	}
	return false
}

// ToUnqualified returns a copy of s with an unqualified id. Idempotent.
func (s *Schema) ToUnqualified() *Schema {
	cp := *s
	cp.Id = s.Id.ToUnqualified()
	return &cp
}
