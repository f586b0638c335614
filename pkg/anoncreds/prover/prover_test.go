package prover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoncreds/pkg/anoncreds/anoncredstest"
	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/logger"
)

func newService() *Service {
	return New(clprimitive.New(), logger.NewSimple("prover_test"))
}

func TestCreateLinkSecretProducesDistinctValues(t *testing.T) {
	s := newService()
	a, err := s.CreateLinkSecret()
	require.NoError(t, err)
	b, err := s.CreateLinkSecret()
	require.NoError(t, err)
	assert.NotEqual(t, a.Value().String(), b.Value().String())
}

func TestCreateCredentialRequestRejectsInvalidDid(t *testing.T) {
	iw, err := anoncredstest.NewIssuerWallet([]string{"name"})
	require.NoError(t, err)
	s := newService()
	ls, err := s.CreateLinkSecret()
	require.NoError(t, err)

	offer, err := iw.Service.CreateCredentialOffer(iw.Schema.Id, iw.CredDef.Id, iw.CorrectnessProof)
	require.NoError(t, err)

	_, _, err = s.CreateCredentialRequest(types.DidValue(""), "main", ls, iw.CredDef, offer)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestIssueAndProcessCredentialRoundtrip(t *testing.T) {
	iw, err := anoncredstest.NewIssuerWallet([]string{"name", "age"})
	require.NoError(t, err)
	pw, err := anoncredstest.NewProverWallet()
	require.NoError(t, err)

	values := types.CredentialValues{
		"name": {Raw: "Alex", Encoded: "123"},
		"age":  {Raw: "28", Encoded: "28"},
	}
	cred, err := anoncredstest.IssueCredential(iw, pw, values)
	require.NoError(t, err)
	assert.Equal(t, iw.CredDef.Id, cred.CredDefId)
	assert.Equal(t, iw.Schema.Id, cred.SchemaId)
}

func TestProcessCredentialRejectsSchemaAttributeMismatch(t *testing.T) {
	iw, err := anoncredstest.NewIssuerWallet([]string{"name"})
	require.NoError(t, err)
	pw, err := anoncredstest.NewProverWallet()
	require.NoError(t, err)

	offer, err := iw.Service.CreateCredentialOffer(iw.Schema.Id, iw.CredDef.Id, iw.CorrectnessProof)
	require.NoError(t, err)
	req, meta, err := pw.Service.CreateCredentialRequest(anoncredstest.ProverDid, "main", pw.LinkSecret, iw.CredDef, offer)
	require.NoError(t, err)
	cred, _, err := iw.Service.CreateCredential(iw.CredDef, iw.CredDefPrivate, offer, req, iw.Schema, types.CredentialValues{"name": {Raw: "Alex", Encoded: "123"}}, nil)
	require.NoError(t, err)

	otherSchema, err := iw.Service.CreateSchema(anoncredstest.IssuerDid, "other", "1.0", []string{"name", "age"}, false)
	require.NoError(t, err)

	err = pw.Service.ProcessCredential(cred, meta, pw.LinkSecret, iw.CredDef, otherSchema)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}
