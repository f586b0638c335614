package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoncreds/pkg/anoncreds/anoncredstest"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/issuer"
	"anoncreds/pkg/anoncreds/tails"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/logger"
)

func newRevocableCredDef(t *testing.T) (*issuer.Service, *types.Schema, *types.CredentialDefinition, *types.CredentialDefinitionPrivate) {
	t.Helper()
	iss := issuer.New(clprimitive.New(), logger.NewSimple("revocation_test"))
	schema, err := iss.CreateSchema(anoncredstest.IssuerDid, "test", "1.0", []string{"name"}, false)
	require.NoError(t, err)
	result, err := iss.CreateCredentialDefinition(anoncredstest.IssuerDid, schema, "rev-tag", types.SignatureTypeCL, true, false)
	require.NoError(t, err)
	return iss, schema, result.CredDef, result.CredDefPrivate
}

func TestCreateOrUpdateRevocationStateFreshWitness(t *testing.T) {
	iss, _, credDef, _ := newRevocableCredDef(t)
	dir := t.TempDir()
	w, err := tails.NewWriter(dir)
	require.NoError(t, err)

	def, _, reg, err := iss.CreateRevocationRegistry(anoncredstest.IssuerDid, credDef, "rev", types.RegistryTypeCLAccum, types.IssuanceByDefault, 4, w, false)
	require.NoError(t, err)

	reader, err := tails.NewReader(def.Value.TailsLocation)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	delta := &types.RevocationRegistryDelta{Accum: reg.Accum, Issued: map[uint32]bool{1: true, 2: true, 3: true, 4: true}, Revoked: map[uint32]bool{}}

	s := newService()
	state, err := s.CreateOrUpdateRevocationState(reader, def, delta, 2, 1000, nil)
	require.NoError(t, err)
	assert.True(t, clprimitive.VerifyWitness(def.Value.PublicKeys.AccumKey, state.Witness, reg.Accum))
}

func TestCreateOrUpdateRevocationStateAfterRevocation(t *testing.T) {
	iss, _, credDef, _ := newRevocableCredDef(t)
	dir := t.TempDir()
	w, err := tails.NewWriter(dir)
	require.NoError(t, err)

	def, _, reg, err := iss.CreateRevocationRegistry(anoncredstest.IssuerDid, credDef, "rev", types.RegistryTypeCLAccum, types.IssuanceByDefault, 4, w, false)
	require.NoError(t, err)

	reader, err := tails.NewReader(def.Value.TailsLocation)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	delta0 := &types.RevocationRegistryDelta{Accum: reg.Accum, Issued: map[uint32]bool{1: true, 2: true, 3: true, 4: true}, Revoked: map[uint32]bool{}}

	s := newService()
	stateBefore, err := s.CreateOrUpdateRevocationState(reader, def, delta0, 2, 1000, nil)
	require.NoError(t, err)

	reg1, delta1, err := iss.RevokeCredential(def, reg, delta0, 3)
	require.NoError(t, err)

	stateAfter, err := s.CreateOrUpdateRevocationState(reader, def, delta1, 2, 2000, stateBefore)
	require.NoError(t, err)

	assert.True(t, clprimitive.VerifyWitness(def.Value.PublicKeys.AccumKey, stateAfter.Witness, reg1.Accum))

	stateForRevoked, err := s.CreateOrUpdateRevocationState(reader, def, delta1, 3, 2000, nil)
	require.NoError(t, err)
	assert.False(t, clprimitive.VerifyWitness(def.Value.PublicKeys.AccumKey, stateForRevoked.Witness, reg1.Accum))
}
