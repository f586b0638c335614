package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoncreds/pkg/anoncreds/clprimitive"
)

func TestSignatureTypeValidateRejectsUnknown(t *testing.T) {
	require.NoError(t, SignatureTypeCL.Validate())
	require.Error(t, SignatureType("ECDSA").Validate())
}

func TestDeriveCredentialDefinitionTagGeneratesFromSchemaName(t *testing.T) {
	assert.Equal(t, "explicit", DeriveCredentialDefinitionTag("explicit", "Demo Schema"))
	assert.Equal(t, "tag-demo schema", DeriveCredentialDefinitionTag("  ", "Demo Schema"))
}

func newTestCredDef(t *testing.T, revocable bool) *CredentialDefinition {
	t.Helper()
	pub, _, _, err := clprimitive.GenerateCredentialDefinitionKeys([]string{"name"})
	require.NoError(t, err)

	val := CredentialDefinitionValue{Primary: pub}
	if revocable {
		revPub, _, err := clprimitive.GenerateRevocationKeys([]byte("seed"))
		require.NoError(t, err)
		val.Revocation = revPub
	}
	return &CredentialDefinition{
		Ver:           CredentialDefinitionVersion1,
		Id:            NewCredentialDefinitionId("UcqYWTQpk3QA3Ow7YNbbh1", "1", "demo-tag", false),
		SchemaId:      SchemaId("1"),
		SignatureType: SignatureTypeCL,
		Tag:           "demo-tag",
		Value:         val,
	}
}

func TestCredentialDefinitionSupportsRevocation(t *testing.T) {
	assert.False(t, newTestCredDef(t, false).SupportsRevocation())
	assert.True(t, newTestCredDef(t, true).SupportsRevocation())
}

func TestCredentialDefinitionToUnqualifiedIsIdempotent(t *testing.T) {
	cd := newTestCredDef(t, false)
	once := cd.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once.Id, twice.Id)
	assert.Equal(t, once.SchemaId, twice.SchemaId)
}

func TestCredentialDefinitionJSONRoundtrip(t *testing.T) {
	cd := newTestCredDef(t, true)
	b, err := json.Marshal(cd)
	require.NoError(t, err)

	var out CredentialDefinition
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, cd.Id, out.Id)
	assert.Equal(t, cd.Value.Primary.N, out.Value.Primary.N)
	require.NotNil(t, out.Value.Revocation)
	assert.Equal(t, cd.Value.Revocation.N, out.Value.Revocation.N)
}
