package backend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buildgrid/internal/config"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	shell, err := Select(config.GeneratorShell)
	require.NoError(t, err)
	require.NotNil(t, shell)
	assert.Equal(t, KindShell, shell.Kind())

	ninja, err := Select(config.GeneratorNinja)
	require.NoError(t, err)
	require.NotNil(t, ninja)
	assert.Equal(t, KindNinja, ninja.Kind())

	assert.NotEqual(t, fmt.Sprintf("%T", shell), fmt.Sprintf("%T", ninja))
}

func TestSelect_Unknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"bogus", "", "Ninja", "make"} {
		gen, err := Select(config.Generator(name))
		require.Error(t, err, name)
		assert.Nil(t, gen)

		var unknown *UnknownGeneratorError
		require.True(t, errors.As(err, &unknown), name)
		assert.Equal(t, name, unknown.Name)
	}
	assert.EqualError(t, &UnknownGeneratorError{Name: "bogus"}, `unknown generator "bogus"`)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds {
		got, ok := ParseKind(string(k))
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("xcode")
	assert.False(t, ok)
}
