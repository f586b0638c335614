package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialValuesLookupNormalizes(t *testing.T) {
	v := CredentialValues{"Full Name": {Raw: "Alex", Encoded: "1"}}
	val, ok := v.Lookup("FULL name")
	require.True(t, ok)
	assert.Equal(t, "Alex", val.Raw)

	_, ok = v.Lookup("missing")
	assert.False(t, ok)
}

func TestCredentialValidateAgainstSchemaRejectsMismatch(t *testing.T) {
	schema, err := NewSchema("UcqYWTQpk3QA3Ow7YNbbh1", "demo", "1.0", []string{"name", "age"}, false)
	require.NoError(t, err)

	c := &Credential{Values: CredentialValues{"name": {Raw: "Alex", Encoded: "1"}}}
	assert.Error(t, c.ValidateAgainstSchema(schema))

	c.Values["age"] = AttributeValue{Raw: "28", Encoded: "28"}
	assert.NoError(t, c.ValidateAgainstSchema(schema))

	c.Values["extra"] = AttributeValue{Raw: "x", Encoded: "1"}
	assert.Error(t, c.ValidateAgainstSchema(schema))
}

func TestCredentialRevocable(t *testing.T) {
	c := &Credential{}
	assert.False(t, c.Revocable())
	id := RevocationRegistryId("r")
	c.RevRegId = &id
	assert.True(t, c.Revocable())
}

func TestCredentialJSONRoundtripWithoutRevocation(t *testing.T) {
	c := &Credential{
		SchemaId:  SchemaId("schema-1"),
		CredDefId: CredentialDefinitionId("creddef-1"),
		Values:    CredentialValues{"name": {Raw: "Alex", Encoded: "123"}},
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)

	var out Credential
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, c.SchemaId, out.SchemaId)
	assert.Equal(t, c.CredDefId, out.CredDefId)
	assert.Equal(t, c.Values, out.Values)
	assert.Nil(t, out.RevRegId)
}
