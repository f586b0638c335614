package issuer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/tails"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/logger"
)

const testDid = types.DidValue("UcqYWTQpk3QA3Ow7YNbbh1")

func newService() *Service {
	return New(clprimitive.New(), logger.NewSimple("issuer_test"))
}

func TestCreateSchemaRejectsEmptyAttrNames(t *testing.T) {
	s := newService()
	_, err := s.CreateSchema(testDid, "test", "1.0", nil, false)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestCreateSchemaRejectsDuplicateAttrNames(t *testing.T) {
	s := newService()
	_, err := s.CreateSchema(testDid, "test", "1.0", []string{"Name", " name "}, false)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestCreateCredentialDefinitionDerivesTag(t *testing.T) {
	s := newService()
	schema, err := s.CreateSchema(testDid, "test", "1.0", []string{"name"}, false)
	require.NoError(t, err)

	result, err := s.CreateCredentialDefinition(testDid, schema, "", types.SignatureTypeCL, false, false)
	require.NoError(t, err)
	assert.Equal(t, "tag-test", result.CredDef.Tag)
	assert.False(t, result.CredDef.SupportsRevocation())
}

func TestCreateCredentialDefinitionWithRevocationCarriesAccumKey(t *testing.T) {
	s := newService()
	schema, err := s.CreateSchema(testDid, "test", "1.0", []string{"name"}, false)
	require.NoError(t, err)

	result, err := s.CreateCredentialDefinition(testDid, schema, "rev-tag", types.SignatureTypeCL, true, false)
	require.NoError(t, err)
	require.NotNil(t, result.CredDef.Value.Revocation)
	assert.True(t, result.CredDef.SupportsRevocation())
}

func TestCreateRevocationRegistryWithoutRevocationSupportFails(t *testing.T) {
	s := newService()
	schema, err := s.CreateSchema(testDid, "test", "1.0", []string{"name"}, false)
	require.NoError(t, err)
	result, err := s.CreateCredentialDefinition(testDid, schema, "", types.SignatureTypeCL, false, false)
	require.NoError(t, err)

	dir := t.TempDir()
	w, err := tails.NewWriter(dir)
	require.NoError(t, err)

	_, _, _, err = s.CreateRevocationRegistry(testDid, result.CredDef, "rev", types.RegistryTypeCLAccum, types.IssuanceByDefault, 4, w, false)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestRevokeCredentialIsIdempotent(t *testing.T) {
	s := newService()
	schema, err := s.CreateSchema(testDid, "test", "1.0", []string{"name"}, false)
	require.NoError(t, err)
	result, err := s.CreateCredentialDefinition(testDid, schema, "rev-tag", types.SignatureTypeCL, true, false)
	require.NoError(t, err)

	dir := t.TempDir()
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	w, err := tails.NewWriter(dir)
	require.NoError(t, err)

	def, _, reg, err := s.CreateRevocationRegistry(testDid, result.CredDef, "rev", types.RegistryTypeCLAccum, types.IssuanceByDefault, 4, w, false)
	require.NoError(t, err)

	delta0 := &types.RevocationRegistryDelta{Accum: reg.Accum, Issued: map[uint32]bool{1: true, 2: true, 3: true, 4: true}, Revoked: map[uint32]bool{}}

	reg1, delta1, err := s.RevokeCredential(def, reg, delta0, 2)
	require.NoError(t, err)
	assert.True(t, delta1.Revoked[2])

	reg2, delta2, err := s.RevokeCredential(def, reg1, delta1, 2)
	require.NoError(t, err)
	assert.Equal(t, delta1.Accum.Value.String(), delta2.Accum.Value.String())
	assert.Equal(t, reg1.Accum.Value.String(), reg2.Accum.Value.String())
}

func TestRevokeCredentialRejectsOutOfRangeIndex(t *testing.T) {
	s := newService()
	schema, err := s.CreateSchema(testDid, "test", "1.0", []string{"name"}, false)
	require.NoError(t, err)
	result, err := s.CreateCredentialDefinition(testDid, schema, "rev-tag", types.SignatureTypeCL, true, false)
	require.NoError(t, err)

	dir := t.TempDir()
	w, err := tails.NewWriter(dir)
	require.NoError(t, err)
	def, _, reg, err := s.CreateRevocationRegistry(testDid, result.CredDef, "rev", types.RegistryTypeCLAccum, types.IssuanceByDefault, 4, w, false)
	require.NoError(t, err)

	delta0 := &types.RevocationRegistryDelta{Accum: reg.Accum, Issued: map[uint32]bool{}, Revoked: map[uint32]bool{}}
	_, _, err = s.RevokeCredential(def, reg, delta0, 5)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}
