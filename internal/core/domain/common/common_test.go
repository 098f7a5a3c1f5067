package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	assert := require.New(t)

	optionalInt := NewOptional(42, true)
	assert.Equal(42, optionalInt.Value)
	assert.True(optionalInt.IsPresent)
	assert.Equal("[42]", optionalInt.String())
	assert.Equal(42, optionalInt.ValueOr(7))

	optionalString := NewOptional("foo", false)
	assert.False(optionalString.IsPresent)
	assert.Equal("[-]", optionalString.String())
	assert.Equal("bar", optionalString.ValueOr("bar"))
}
