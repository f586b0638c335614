package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaIdToUnqualifiedIsIdempotent(t *testing.T) {
	did := DidValue("UcqYWTQpk3QA3Ow7YNbbh1")
	qualified := NewSchemaId(did, "test", "1.0", true)
	once := qualified.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once, twice)
	assert.False(t, once.Qualified())
	assert.Equal(t, SchemaId("UcqYWTQpk3QA3Ow7YNbbh1:2:test:1.0"), once)
}

func TestCredentialDefinitionIdToUnqualifiedIsIdempotent(t *testing.T) {
	did := DidValue("UcqYWTQpk3QA3Ow7YNbbh1")
	qualified := NewCredentialDefinitionId(did, "1", "tag", true)
	once := qualified.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once, twice)
	assert.Equal(t, CredentialDefinitionId("UcqYWTQpk3QA3Ow7YNbbh1:3:CL:1:tag"), once)
}

func TestRevocationRegistryIdToUnqualifiedIsIdempotent(t *testing.T) {
	did := DidValue("UcqYWTQpk3QA3Ow7YNbbh1")
	credDefId := NewCredentialDefinitionId(did, "1", "tag", false)
	qualified := NewRevocationRegistryId(did, credDefId, "rev", true)
	once := qualified.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once, twice)
}

func TestDidValueToUnqualifiedIsIdempotent(t *testing.T) {
	d := DidValue("did:sov:UcqYWTQpk3QA3Ow7YNbbh1")
	once := d.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once, twice)
	assert.Equal(t, DidValue("UcqYWTQpk3QA3Ow7YNbbh1"), once)
}

func TestDidValueValidateRejectsEmptyAndMalformed(t *testing.T) {
	require.Error(t, DidValue("").Validate())
	require.Error(t, DidValue("did:sov:").Validate())
	require.NoError(t, DidValue("UcqYWTQpk3QA3Ow7YNbbh1").Validate())
	require.NoError(t, DidValue("did:sov:abc").Validate())
}

func TestAttrCommonViewIsIdempotentAndNormalizes(t *testing.T) {
	once := AttrCommonView("  First Name\t")
	twice := AttrCommonView(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, "firstname", once)
}

func TestNonceJSONRoundtrip(t *testing.T) {
	n, err := NewNonce()
	require.NoError(t, err)

	data, err := n.MarshalJSON()
	require.NoError(t, err)

	var decoded Nonce
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.True(t, n.Equal(decoded))
}

func TestNonceFromBigIntMatchesSourceValue(t *testing.T) {
	n, err := NewNonce()
	require.NoError(t, err)
	cloned := NonceFromBigInt(n.BigInt())
	assert.True(t, n.Equal(cloned))
	assert.Equal(t, n.String(), cloned.String())
}
