package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/regions/internal/maincmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestCmdCheckSucceeds(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "ok.rgn", "var:\n\tv0\n")

	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"regioncheck", "check", p}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	assert.Equal(t, mainer.Success, code)
	assert.Equal(t, "", errOut.String())
	assert.Contains(t, out.String(), "v0 = 'empty")
}

func TestCmdCheckReportsResolutionErrors(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "bad.rgn", "scope:\n\ta\n\tb\n\ncon:\n\tscope a <= scope b\n")

	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"regioncheck", "check", p}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	assert.Equal(t, mainer.Failure, code)
	assert.Contains(t, errOut.String(), "does not outlive")
}

func TestCmdCheckQuietSuppressesResults(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "ok.rgn", "var:\n\tv0\n")

	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"regioncheck", "--quiet", "check", p}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	assert.Equal(t, mainer.Success, code)
	assert.Empty(t, out.String())
}

func TestCmdCheckRequiresAtLeastOneFile(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"regioncheck", "check"}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	assert.Equal(t, mainer.InvalidArgs, code)
}

func TestCmdVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{BuildVersion: "1.0.0", BuildDate: "2026-01-01"}
	code := c.Main([]string{"regioncheck", "--version"}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "1.0.0")
}
