package types

import (
	"fmt"
	"strings"

	"anoncreds/pkg/anoncreds/apperr"
)

// DefaultDidMethod is the DID method used when qualifying identifiers that
// were not already qualified by a caller-supplied method.
const DefaultDidMethod = "sov"

// DidValue is a DID, either qualified ("did:<method>:<id>") or a bare
// unqualified identifier string.
type DidValue string

// Qualified reports whether d carries a "did:<method>:" prefix.
func (d DidValue) Qualified() bool {
	return strings.HasPrefix(string(d), "did:")
}

// ToUnqualified drops the DID-method prefix, if any. Idempotent.
func (d DidValue) ToUnqualified() DidValue {
	if !d.Qualified() {
		return d
	}
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) != 3 {
		return d
	}
	return DidValue(parts[2])
}

// Validate enforces the minimal DID grammar: non-empty, and if prefixed
// with "did:" it must carry a method and a value.
func (d DidValue) Validate() error {
	if strings.TrimSpace(string(d)) == "" {
		return apperr.New(apperr.Input, "did value is empty")
	}
	if strings.HasPrefix(string(d), "did:") {
		parts := strings.SplitN(string(d), ":", 3)
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return apperr.New(apperr.Input, "malformed qualified did %q", string(d))
		}
	}
	return nil
}

func qualify(method string, unqualifiedDid DidValue, segments ...string) string {
	return fmt.Sprintf("did:%s:%s/anoncreds/v0/%s", method, unqualifiedDid.ToUnqualified(), strings.Join(segments, "/"))
}

// SchemaId identifies a Schema, qualified or unqualified.
type SchemaId string

// NewSchemaId builds a SchemaId in unqualified or qualified legacy form.
func NewSchemaId(did DidValue, name, version string, qualified bool) SchemaId {
	if qualified {
		return SchemaId(qualify(DefaultDidMethod, did, "SCHEMA", name, version))
	}
	return SchemaId(fmt.Sprintf("%s:2:%s:%s", did.ToUnqualified(), name, version))
}

// Qualified reports whether id is in qualified ("did:...") form.
func (id SchemaId) Qualified() bool {
	return strings.HasPrefix(string(id), "did:")
}

// ToUnqualified projects id to its legacy unqualified form. Idempotent.
func (id SchemaId) ToUnqualified() SchemaId {
	if !id.Qualified() {
		return id
	}
	parts := strings.SplitN(string(id), ":", 3)
	if len(parts) != 3 {
		return id
	}
	method := parts[1]
	rest := parts[2]
	segs := strings.Split(rest, "/")
	// did:<method>:<did>/anoncreds/v0/SCHEMA/<name>/<version>
	if len(segs) >= 5 && segs[1] == "anoncreds" && segs[3] == "SCHEMA" {
		_ = method
		return SchemaId(fmt.Sprintf("%s:2:%s:%s", segs[0], segs[4], strings.Join(segs[5:], "/")))
	}
	return id
}

func (id SchemaId) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperr.New(apperr.Input, "schema id is empty")
	}
	return nil
}

// CredentialDefinitionId identifies a CredentialDefinition.
type CredentialDefinitionId string

func NewCredentialDefinitionId(did DidValue, schemaIdOrSeqNo, tag string, qualified bool) CredentialDefinitionId {
	if qualified {
		return CredentialDefinitionId(qualify(DefaultDidMethod, did, "CLAIM_DEF", schemaIdOrSeqNo, tag))
	}
	return CredentialDefinitionId(fmt.Sprintf("%s:3:CL:%s:%s", did.ToUnqualified(), schemaIdOrSeqNo, tag))
}

func (id CredentialDefinitionId) Qualified() bool {
	return strings.HasPrefix(string(id), "did:")
}

func (id CredentialDefinitionId) ToUnqualified() CredentialDefinitionId {
	if !id.Qualified() {
		return id
	}
	parts := strings.SplitN(string(id), ":", 3)
	if len(parts) != 3 {
		return id
	}
	rest := parts[2]
	segs := strings.Split(rest, "/")
	if len(segs) >= 5 && segs[1] == "anoncreds" && segs[3] == "CLAIM_DEF" {
		return CredentialDefinitionId(fmt.Sprintf("%s:3:CL:%s:%s", segs[0], segs[4], strings.Join(segs[5:], "/")))
	}
	return id
}

func (id CredentialDefinitionId) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperr.New(apperr.Input, "credential definition id is empty")
	}
	return nil
}

// RevocationRegistryId identifies a RevocationRegistryDefinition.
type RevocationRegistryId string

func NewRevocationRegistryId(did DidValue, credDefId CredentialDefinitionId, tag string, qualified bool) RevocationRegistryId {
	if qualified {
		return RevocationRegistryId(qualify(DefaultDidMethod, did, "REV_REG_DEF", string(credDefId), "CL_ACCUM", tag))
	}
	return RevocationRegistryId(fmt.Sprintf("%s:4:%s:CL_ACCUM:%s", did.ToUnqualified(), credDefId.ToUnqualified(), tag))
}

func (id RevocationRegistryId) Qualified() bool {
	return strings.HasPrefix(string(id), "did:")
}

func (id RevocationRegistryId) ToUnqualified() RevocationRegistryId {
	if !id.Qualified() {
		return id
	}
	parts := strings.SplitN(string(id), ":", 3)
	if len(parts) != 3 {
		return id
	}
	rest := parts[2]
	segs := strings.Split(rest, "/")
	if len(segs) >= 6 && segs[1] == "anoncreds" && segs[3] == "REV_REG_DEF" {
		return RevocationRegistryId(fmt.Sprintf("%s:4:%s:CL_ACCUM:%s", segs[0], segs[4], strings.Join(segs[6:], "/")))
	}
	return id
}

func (id RevocationRegistryId) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperr.New(apperr.Input, "revocation registry id is empty")
	}
	return nil
}
