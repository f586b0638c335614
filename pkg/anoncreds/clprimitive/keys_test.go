package clprimitive

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCredentialDefinitionKeysIncludesMasterSecretGenerator(t *testing.T) {
	pub, _, proof, err := GenerateCredentialDefinitionKeys([]string{"name", "age"})
	require.NoError(t, err)
	_, ok := pub.R[MasterSecretName]
	assert.True(t, ok)
	assert.NoError(t, VerifyKeyCorrectnessProof(pub, proof))
}

func TestVerifyKeyCorrectnessProofRejectsTamperedZ(t *testing.T) {
	pub, _, proof, err := GenerateCredentialDefinitionKeys([]string{"name"})
	require.NoError(t, err)
	pub.Z = modMul(pub.Z, big.NewInt(2), pub.N)
	assert.Error(t, VerifyKeyCorrectnessProof(pub, proof))
}

func TestVerifyKeyCorrectnessProofRejectsMissingProof(t *testing.T) {
	pub, _, _, err := GenerateCredentialDefinitionKeys([]string{"name"})
	require.NoError(t, err)
	assert.Error(t, VerifyKeyCorrectnessProof(pub, nil))
}
