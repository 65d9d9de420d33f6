package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/regions/lang/regions"
)

func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CheckFiles(ctx, stdio, c.Quiet, args...)
}

// CheckFiles parses and solves each named region program in turn, printing
// the solved value of every declared variable (unless quiet) followed by
// any resolution errors. It returns a non-nil error if any file fails to
// parse or solves with at least one resolution error, after having printed
// every file's own diagnostics.
func CheckFiles(ctx context.Context, stdio mainer.Stdio, quiet bool, files ...string) error {
	var failed bool
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkFile(stdio, quiet, file); err != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("one or more region programs failed to check")
	}
	return nil
}

func checkFile(stdio mainer.Stdio, quiet bool, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
		return err
	}

	sc, err := regions.ParseScript(b)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
		return err
	}

	errs := sc.Solve()
	if !quiet {
		for _, name := range sc.VarNames() {
			v, _ := sc.ResolveVar(name)
			fmt.Fprintf(stdio.Stdout, "%s: %s = %s\n", file, name, v)
		}
	}
	for _, e := range errs {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, e)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
