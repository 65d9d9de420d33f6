package regions

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// This file implements a human-readable/writable textual form of a region
// inference problem, in the spirit of the project's other section-based
// assembly formats: mostly to let tests and the regioncheck command drive
// the solver without first building an AST and a type checker around it.
//
// The format looks like this (order of sections is arbitrary, but a name
// must be declared in its own section before it is referenced elsewhere):
//
// 	scope:                  # list of scopes, as 'NAME [PARENT]'
// 		root
// 		child root
//
// 	free:                   # list of free regions, as 'NAME SCOPE ID'
// 		f0 root 0
// 		f1 root 1
//
// 	subfree:                # list of declared free-region bounds, 'A B' for A <= B
// 		f0 f1
//
// 	var:                    # list of inference variables, one NAME per line
// 		v0
// 		v1
//
// 	con:                    # list of outlives constraints, 'REGION <= REGION'
// 		scope root <= var v0
// 		var v0 <= var v1
//
// A REGION is one of: 'static', 'empty', 'scope NAME', 'free NAME' or
// 'var NAME'.

var scriptSections = map[string]bool{
	"scope:":   true,
	"free:":    true,
	"subfree:": true,
	"var:":     true,
	"con:":     true,
}

// Script is a parsed textual region program, with its names still attached
// so that results can be reported back in terms of them.
type Script struct {
	tree  *ScopeTree
	store *Store

	scopeByName map[string]ScopeID
	freeByName  map[string]Free
	varByName   map[string]VarID
}

// ParseScript reads a textual region program in the section-based format
// documented above.
func ParseScript(b []byte) (*Script, error) {
	sc := &Script{
		tree:        NewScopeTree(),
		scopeByName: make(map[string]ScopeID),
		freeByName:  make(map[string]Free),
		varByName:   make(map[string]VarID),
	}
	sc.store = NewStore(sc.tree)

	p := &scriptParser{s: bufio.NewScanner(bytes.NewReader(b))}
	section := ""
	for fields := p.next(); fields != nil; fields = p.next() {
		if scriptSections[fields[0]] {
			section = fields[0]
			continue
		}
		if section == "" {
			return nil, fmt.Errorf("line outside of any section: %s", strings.Join(fields, " "))
		}

		var err error
		switch section {
		case "scope:":
			err = sc.declareScope(fields)
		case "free:":
			err = sc.declareFree(fields)
		case "subfree:":
			err = sc.declareSubFree(fields)
		case "var:":
			err = sc.declareVar(fields)
		case "con:":
			err = sc.declareConstraint(fields)
		}
		if err != nil {
			return nil, err
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return sc, nil
}

func (sc *Script) declareScope(fields []string) error {
	if len(fields) < 1 || len(fields) > 2 {
		return fmt.Errorf("scope: want 'NAME [PARENT]', got %q", strings.Join(fields, " "))
	}
	name := fields[0]
	if _, ok := sc.scopeByName[name]; ok {
		return fmt.Errorf("scope: %s already declared", name)
	}
	if len(fields) == 1 {
		sc.scopeByName[name] = sc.tree.Root()
		return nil
	}
	parent, ok := sc.scopeByName[fields[1]]
	if !ok {
		return fmt.Errorf("scope: unknown parent scope %s", fields[1])
	}
	sc.scopeByName[name] = sc.tree.Child(parent)
	return nil
}

func (sc *Script) declareFree(fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("free: want 'NAME SCOPE ID', got %q", strings.Join(fields, " "))
	}
	name := fields[0]
	if _, ok := sc.freeByName[name]; ok {
		return fmt.Errorf("free: %s already declared", name)
	}
	scope, ok := sc.scopeByName[fields[1]]
	if !ok {
		return fmt.Errorf("free: unknown scope %s", fields[1])
	}
	id, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return fmt.Errorf("free: invalid id %s: %w", fields[2], err)
	}
	sc.freeByName[name] = Free{Scope: scope, ID: FreeID(id)}
	return nil
}

func (sc *Script) declareSubFree(fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("subfree: want 'A B', got %q", strings.Join(fields, " "))
	}
	a, ok := sc.freeByName[fields[0]]
	if !ok {
		return fmt.Errorf("subfree: unknown free region %s", fields[0])
	}
	b, ok := sc.freeByName[fields[1]]
	if !ok {
		return fmt.Errorf("subfree: unknown free region %s", fields[1])
	}
	sc.tree.DeclareSubFree(a, b)
	return nil
}

func (sc *Script) declareVar(fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("var: want 'NAME', got %q", strings.Join(fields, " "))
	}
	name := fields[0]
	if _, ok := sc.varByName[name]; ok {
		return fmt.Errorf("var: %s already declared", name)
	}
	sc.varByName[name] = sc.store.NewVar(name)
	return nil
}

func (sc *Script) declareConstraint(fields []string) error {
	sep := -1
	for i, f := range fields {
		if f == "<=" {
			sep = i
			break
		}
	}
	if sep < 0 {
		return fmt.Errorf("con: missing '<=' in %q", strings.Join(fields, " "))
	}
	sub, err := sc.parseRegion(fields[:sep])
	if err != nil {
		return err
	}
	sup, err := sc.parseRegion(fields[sep+1:])
	if err != nil {
		return err
	}
	origin := strings.Join(fields, " ")
	sc.store.MakeSubregion(origin, sub, sup)
	return nil
}

func (sc *Script) parseRegion(fields []string) (Lifetime, error) {
	if len(fields) == 0 {
		return Lifetime{}, fmt.Errorf("con: empty region")
	}
	switch fields[0] {
	case "static":
		return Static(), nil
	case "empty":
		return Empty(), nil
	case "scope":
		if len(fields) != 2 {
			return Lifetime{}, fmt.Errorf("con: want 'scope NAME', got %q", strings.Join(fields, " "))
		}
		s, ok := sc.scopeByName[fields[1]]
		if !ok {
			return Lifetime{}, fmt.Errorf("con: unknown scope %s", fields[1])
		}
		return OfScope(s), nil
	case "free":
		if len(fields) != 2 {
			return Lifetime{}, fmt.Errorf("con: want 'free NAME', got %q", strings.Join(fields, " "))
		}
		f, ok := sc.freeByName[fields[1]]
		if !ok {
			return Lifetime{}, fmt.Errorf("con: unknown free region %s", fields[1])
		}
		return OfFree(f), nil
	case "var":
		if len(fields) != 2 {
			return Lifetime{}, fmt.Errorf("con: want 'var NAME', got %q", strings.Join(fields, " "))
		}
		v, ok := sc.varByName[fields[1]]
		if !ok {
			return Lifetime{}, fmt.Errorf("con: unknown variable %s", fields[1])
		}
		return OfVar(v), nil
	default:
		return Lifetime{}, fmt.Errorf("con: unknown region kind %q", fields[0])
	}
}

// Solve runs the solver over the parsed program.
func (sc *Script) Solve() ErrorList { return sc.store.Solve() }

// ResolveVar reports the solved lifetime of the variable declared under
// name, or false if no such variable was declared.
func (sc *Script) ResolveVar(name string) (Lifetime, bool) {
	v, ok := sc.varByName[name]
	if !ok {
		return Lifetime{}, false
	}
	return sc.store.ResolveVar(v), true
}

// VarNames returns every declared variable name, sorted, so callers can
// report results deterministically.
func (sc *Script) VarNames() []string {
	names := maps.Keys(sc.varByName)
	slices.Sort(names)
	return names
}

// scriptParser is the line scanner shared by every section parser: it skips
// blank and comment-only lines and strips trailing comments, leaving the
// meaningful fields of the next line.
type scriptParser struct {
	s   *bufio.Scanner
	err error
}

func (p *scriptParser) next() []string {
	if p.err != nil {
		return nil
	}
	for p.s.Scan() {
		line := p.s.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		for i, fld := range fields {
			if strings.HasPrefix(fld, "#") {
				fields = fields[:i]
				break
			}
		}
		return fields
	}
	p.err = p.s.Err()
	return nil
}
