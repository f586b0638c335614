package clprimitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIndexBoundaries(t *testing.T) {
	assert.Error(t, ValidateIndex(0, 4))
	assert.NoError(t, ValidateIndex(1, 4))
	assert.NoError(t, ValidateIndex(4, 4))
	assert.Error(t, ValidateIndex(5, 4))
}

func TestComputeAccumulatorDiffersByActiveSet(t *testing.T) {
	pub, _, err := GenerateRevocationKeys([]byte("reg-1"))
	require.NoError(t, err)

	full := ComputeAccumulator(pub, []uint32{1, 2, 3, 4})
	withoutTwo := ComputeAccumulator(pub, []uint32{1, 3, 4})
	assert.NotEqual(t, full.Value.String(), withoutTwo.Value.String())

	again := ComputeAccumulator(pub, []uint32{4, 3, 1})
	assert.Equal(t, full.Value.String(), again.Value.String())
}

func TestInitialAccumulatorIssuanceModes(t *testing.T) {
	pub, _, err := GenerateRevocationKeys([]byte("reg-2"))
	require.NoError(t, err)

	byDefault := InitialAccumulator(pub, 4, true)
	onDemand := InitialAccumulator(pub, 4, false)
	assert.NotEqual(t, byDefault.Value.String(), onDemand.Value.String())
	assert.Equal(t, pub.G.String(), onDemand.Value.String())
}

func TestWitnessVerifiesAgainstMatchingAccumulator(t *testing.T) {
	pub, _, err := GenerateRevocationKeys([]byte("reg-3"))
	require.NoError(t, err)

	reader := fakeTailsReader{}
	w, err := NewWitness(pub, 2, 4, true, nil, nil, reader)
	require.NoError(t, err)

	acc := ComputeAccumulator(pub, []uint32{1, 2, 3, 4})
	assert.True(t, VerifyWitness(pub, w, acc))

	accWithoutIdx := ComputeAccumulator(pub, []uint32{1, 3, 4})
	assert.False(t, VerifyWitness(pub, w, accWithoutIdx))
}

func TestNewWitnessRejectsNilTailsReader(t *testing.T) {
	pub, _, err := GenerateRevocationKeys([]byte("reg-4"))
	require.NoError(t, err)
	_, err = NewWitness(pub, 1, 4, true, nil, nil, nil)
	assert.Error(t, err)
}

type fakeTailsReader struct{}

func (fakeTailsReader) ReadAt(offset, length int64) ([]byte, error) {
	return make([]byte, length), nil
}
