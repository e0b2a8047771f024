package lexical

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaFingerprintDeterministic(t *testing.T) {
	require.Equal(t, SchemaFingerprint(), SchemaFingerprint())
	require.Len(t, SchemaFingerprint(), 64)
}

func TestCheckFingerprintRoundtrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "ftcore-lexical-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	matches, existed, err := CheckFingerprint(dir)
	require.NoError(t, err)
	require.False(t, existed)
	require.True(t, matches, "a missing fingerprint file is never treated as a mismatch")

	require.NoError(t, WriteFingerprint(dir))

	matches, existed, err = CheckFingerprint(dir)
	require.NoError(t, err)
	require.True(t, existed)
	require.True(t, matches)
}

func TestCheckFingerprintDetectsMismatch(t *testing.T) {
	dir, err := os.MkdirTemp("", "ftcore-lexical-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	require.NoError(t, os.WriteFile(fingerprintPath(dir), []byte("0000000000000000000000000000000000000000000000000000000000000000\n"), 0o644))

	matches, existed, err := CheckFingerprint(dir)
	require.NoError(t, err)
	require.True(t, existed)
	require.False(t, matches)
}
