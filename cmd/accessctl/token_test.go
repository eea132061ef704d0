package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenCommands(t *testing.T) {
	out, err := run(t, "token", "encode", "1", "5")
	require.NoError(t, err)
	assert.Equal(t, "1,5\n", out)

	out, err = run(t, "token", "decode", "1,5")
	require.NoError(t, err)
	assert.Equal(t, "person: 1\nequipment: 5\n", out)

	_, err = run(t, "token", "decode", "1;5")
	assert.Error(t, err)
}

func TestQRRenderThenScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.png")

	out, err := run(t, "qr", "render", "1", "5", "--out", path, "--size", "256")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err = run(t, "qr", "scan", path)
	require.NoError(t, err)
	assert.Equal(t, "1,5\n", out)
}
