package ibf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveIDDeterministic(t *testing.T) {
	item := []byte("hello world")
	require.Equal(t, DeriveID(item), DeriveID(item))
}

func TestDeriveIDDiffers(t *testing.T) {
	require.NotEqual(t, DeriveID([]byte("a")), DeriveID([]byte("b")))
}
