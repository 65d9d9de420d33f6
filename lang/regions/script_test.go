package regions_test

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/regions/internal/filetest"
	"github.com/mna/regions/lang/regions"
	"github.com/stretchr/testify/require"
)

var testUpdateScriptTests = flag.Bool("test.update-script-tests", false, "If set, replace expected script test results with actual results.")

func TestScript(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".rgn") {
		t.Run(fi.Name(), func(t *testing.T) {
			b, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			sc, err := regions.ParseScript(b)
			require.NoError(t, err)

			var buf bytes.Buffer
			errs := sc.Solve()
			for _, name := range sc.VarNames() {
				v, ok := sc.ResolveVar(name)
				require.True(t, ok)
				fmt.Fprintf(&buf, "%s = %s\n", name, v)
			}
			for _, e := range errs {
				fmt.Fprintf(&buf, "error: %s\n", e)
			}

			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateScriptTests)
		})
	}
}

func TestScriptRejectsUnknownReferences(t *testing.T) {
	_, err := regions.ParseScript([]byte("con:\n\tvar v0 <= static\n"))
	require.Error(t, err)
}

func TestScriptRejectsMissingSeparator(t *testing.T) {
	_, err := regions.ParseScript([]byte("var:\n\tv0\ncon:\n\tvar v0 static\n"))
	require.Error(t, err)
}
