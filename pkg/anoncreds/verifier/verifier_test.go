package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoncreds/pkg/anoncreds/anoncredstest"
	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/prover"
	"anoncreds/pkg/anoncreds/types"
)

func mustNonce(t *testing.T) types.Nonce {
	t.Helper()
	n, err := types.NewNonce()
	require.NoError(t, err)
	return n
}

func basicPresReq(t *testing.T, attrs map[string]types.AttributeInfo) *types.PresentationRequest {
	t.Helper()
	return &types.PresentationRequest{
		PresentationRequestPayload: types.PresentationRequestPayload{
			Nonce:               mustNonce(t),
			Name:                "test",
			Version:             "1.0",
			RequestedAttributes: attrs,
		},
		RequestVersion: types.PresentationRequestV1,
	}
}

func TestVerifyPresentationRejectsUnansweredReferent(t *testing.T) {
	iw, err := anoncredstest.NewIssuerWallet([]string{"name"})
	require.NoError(t, err)
	pw, err := anoncredstest.NewProverWallet()
	require.NoError(t, err)

	cred, err := anoncredstest.IssueCredential(iw, pw, types.CredentialValues{"name": {Raw: "Alex", Encoded: "123"}})
	require.NoError(t, err)

	presReq := basicPresReq(t, map[string]types.AttributeInfo{
		"r1": {Name: "name"},
		"r2": {Name: "name"},
	})

	presentation, err := pw.Service.CreatePresentation(
		presReq,
		prover.PresentCredentials{{Credential: cred, RequestedAttributes: map[string]bool{"r1": true}}},
		nil,
		pw.LinkSecret,
		map[types.SchemaId]*types.Schema{iw.Schema.Id: iw.Schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{iw.CredDef.Id: iw.CredDef},
	)
	require.NoError(t, err)

	_, err = anoncredstest.VerifierService().VerifyPresentation(
		presentation, presReq,
		map[types.SchemaId]*types.Schema{iw.Schema.Id: iw.Schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{iw.CredDef.Id: iw.CredDef},
		nil, nil, false,
	)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestVerifyPresentationRejectsUnknownCredDef(t *testing.T) {
	iw, err := anoncredstest.NewIssuerWallet([]string{"name"})
	require.NoError(t, err)
	pw, err := anoncredstest.NewProverWallet()
	require.NoError(t, err)

	cred, err := anoncredstest.IssueCredential(iw, pw, types.CredentialValues{"name": {Raw: "Alex", Encoded: "123"}})
	require.NoError(t, err)

	presReq := basicPresReq(t, map[string]types.AttributeInfo{"r1": {Name: "name"}})

	presentation, err := pw.Service.CreatePresentation(
		presReq,
		prover.PresentCredentials{{Credential: cred, RequestedAttributes: map[string]bool{"r1": true}}},
		nil,
		pw.LinkSecret,
		map[types.SchemaId]*types.Schema{iw.Schema.Id: iw.Schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{iw.CredDef.Id: iw.CredDef},
	)
	require.NoError(t, err)

	_, err = anoncredstest.VerifierService().VerifyPresentation(
		presentation, presReq,
		map[types.SchemaId]*types.Schema{iw.Schema.Id: iw.Schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{},
		nil, nil, false,
	)
	assert.Equal(t, apperr.Input, apperr.KindOf(err))
}

func TestVerifyPresentationPredicateFailsWhenUnmet(t *testing.T) {
	iw, err := anoncredstest.NewIssuerWallet([]string{"age"})
	require.NoError(t, err)
	pw, err := anoncredstest.NewProverWallet()
	require.NoError(t, err)

	cred, err := anoncredstest.IssueCredential(iw, pw, types.CredentialValues{"age": {Raw: "10", Encoded: "10"}})
	require.NoError(t, err)

	presReq := &types.PresentationRequest{
		PresentationRequestPayload: types.PresentationRequestPayload{
			Nonce:   mustNonce(t),
			Name:    "test",
			Version: "1.0",
			RequestedPredicates: map[string]types.PredicateInfo{
				"p1": {Name: "age", PType: clprimitive.PredicateGE, PValue: 18},
			},
		},
		RequestVersion: types.PresentationRequestV1,
	}

	_, err = pw.Service.CreatePresentation(
		presReq,
		prover.PresentCredentials{{Credential: cred, RequestedPredicates: map[string]bool{"p1": true}}},
		nil,
		pw.LinkSecret,
		map[types.SchemaId]*types.Schema{iw.Schema.Id: iw.Schema},
		map[types.CredentialDefinitionId]*types.CredentialDefinition{iw.CredDef.Id: iw.CredDef},
	)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}
