package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaRejectsDuplicateNormalizedAttributes(t *testing.T) {
	_, err := NewSchema("UcqYWTQpk3QA3Ow7YNbbh1", "demo", "1.0", []string{"Name", "name "}, false)
	require.Error(t, err)
}

func TestNewSchemaRejectsEmptyAttrNames(t *testing.T) {
	_, err := NewSchema("UcqYWTQpk3QA3Ow7YNbbh1", "demo", "1.0", nil, false)
	require.Error(t, err)
}

func TestSchemaHasAttributeNormalizes(t *testing.T) {
	s, err := NewSchema("UcqYWTQpk3QA3Ow7YNbbh1", "demo", "1.0", []string{"Full Name"}, false)
	require.NoError(t, err)
	assert.True(t, s.HasAttribute("FULL name"))
	assert.False(t, s.HasAttribute("other"))
}

func TestSchemaToUnqualifiedIsIdempotent(t *testing.T) {
	s, err := NewSchema("UcqYWTQpk3QA3Ow7YNbbh1", "demo", "1.0", []string{"name"}, true)
	require.NoError(t, err)
	once := s.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once.Id, twice.Id)
}

func TestSchemaJSONRoundtrip(t *testing.T) {
	s, err := NewSchema("UcqYWTQpk3QA3Ow7YNbbh1", "demo", "1.0", []string{"name", "age"}, false)
	require.NoError(t, err)

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var out Schema
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, *s, out)
}
