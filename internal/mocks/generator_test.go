package mocks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/ghost-api/internal/domain"
	"github.com/phrazzld/ghost-api/internal/generation"
	"github.com/phrazzld/ghost-api/internal/mocks"
)

func TestMockGenerator_Sequence(t *testing.T) {
	m := mocks.NewMockGeneratorWithSequence(generation.ErrTimeout, nil, generation.ErrUpstream)
	q, err := domain.NewQuery("hello")
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), generation.Input{Query: q})
	assert.ErrorIs(t, err, generation.ErrTimeout)

	a, err := m.Generate(context.Background(), generation.Input{Query: q})
	require.NoError(t, err)
	assert.Equal(t, mocks.DefaultAnalysis(), a)

	_, err = m.Generate(context.Background(), generation.Input{Query: q})
	assert.ErrorIs(t, err, generation.ErrUpstream)

	a, err = m.Generate(context.Background(), generation.Input{Query: q})
	require.NoError(t, err)
	assert.NotNil(t, a)

	assert.Equal(t, 4, m.CallCount())
	assert.Equal(t, "hello", m.LastInput().Query.String())

	m.Reset()
	assert.Zero(t, m.CallCount())
}

func TestMockGenerator_ReturnsCopies(t *testing.T) {
	m := mocks.NewMockGeneratorWithAnalysis(mocks.DefaultAnalysis())

	first, err := m.Generate(context.Background(), generation.Input{})
	require.NoError(t, err)
	first.Actions[0] = "mutated"

	second, err := m.Generate(context.Background(), generation.Input{})
	require.NoError(t, err)
	assert.Equal(t, mocks.DefaultAnalysis().Actions, second.Actions)
}
