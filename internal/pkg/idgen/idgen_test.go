package idgen_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/digidex/internal/pkg/idgen"
)

func TestSequential(t *testing.T) {
	gen := idgen.NewSequential("push")
	assert.Equal(t, "push_1", gen.Generate())
	assert.Equal(t, "push_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUID(t *testing.T) {
	gen := idgen.NewUUID("push")
	id := gen.Generate()

	require.True(t, strings.HasPrefix(id, "push_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "push_"))
	assert.NoError(t, err)
	assert.NotEqual(t, id, gen.Generate())
}
