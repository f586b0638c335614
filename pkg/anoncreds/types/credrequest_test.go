package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRequestToUnqualifiedIsIdempotent(t *testing.T) {
	req := &CredentialRequest{
		ProverDid: DidValue("did:sov:VsKV7grR1BUE29mG2Fm2kX"),
		CredDefId: CredentialDefinitionId("did:sov:UcqYWTQpk3QA3Ow7YNbbh1/anoncreds/v0/CLAIM_DEF/1/demo-tag"),
	}
	once := req.ToUnqualified()
	twice := once.ToUnqualified()
	assert.Equal(t, once.ProverDid, twice.ProverDid)
	assert.Equal(t, once.CredDefId, twice.CredDefId)
}

func TestCredentialRequestMetadataJSONRoundtrip(t *testing.T) {
	nonce, err := NewNonce()
	require.NoError(t, err)
	meta := &CredentialRequestMetadata{
		Nonce:            nonce,
		MasterSecretName: "master_secret",
	}
	b, err := json.Marshal(meta)
	require.NoError(t, err)

	var out CredentialRequestMetadata
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, meta.MasterSecretName, out.MasterSecretName)
	assert.True(t, meta.Nonce.Equal(out.Nonce))
}
