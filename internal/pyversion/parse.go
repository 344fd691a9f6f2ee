package pyversion

import (
	"errors"
	"fmt"

	"github.com/go-python/gpython/ast"
	_ "github.com/go-python/gpython/builtin"
	"github.com/go-python/gpython/parser"
	"github.com/go-python/gpython/py"
)

// ErrNoVersion is returned by Parse when the module never assigns version.
var ErrNoVersion = errors.New("no version assignment found")

// versionArgs are the positional parameters of the Version constructor.
var versionArgs = []string{"package", "major", "minor", "micro"}

// Parse extracts the version declared by a _version.py module. The module is
// parsed, not executed: the last top-level "version = ...Version(...)"
// assignment is evaluated, accepting positional and keyword arguments with
// literal values.
func Parse(src string) (Version, error) {
	parsed, err := parser.ParseString(src, "exec")
	if err != nil {
		return Version{}, fmt.Errorf("parsing version module: %w", err)
	}
	module, ok := parsed.(*ast.Module)
	if !ok {
		return Version{}, fmt.Errorf("parsing version module: unexpected %s", parsed.Type().Name)
	}

	var call *ast.Call
	for _, stmt := range module.Body {
		assign, ok := stmt.(*ast.Assign)
		if !ok {
			continue
		}
		for _, target := range assign.Targets {
			name, ok := target.(*ast.Name)
			if !ok || name.Id != "version" || name.Ctx != ast.Store {
				continue
			}
			c, ok := assign.Value.(*ast.Call)
			if !ok || !isVersionConstructor(c.Func) {
				return Version{}, fmt.Errorf("line %d: version is not assigned a Version(...) call", assign.Lineno)
			}
			call = c
		}
	}
	if call == nil {
		return Version{}, ErrNoVersion
	}
	return evalCall(call)
}

// isVersionConstructor matches both "Version" and "versions.Version".
func isVersionConstructor(fn ast.Expr) bool {
	switch f := fn.(type) {
	case *ast.Name:
		return f.Id == "Version"
	case *ast.Attribute:
		return f.Attr == "Version"
	}
	return false
}

func evalCall(call *ast.Call) (Version, error) {
	if len(call.Args) > len(versionArgs) {
		return Version{}, fmt.Errorf("line %d: Version takes at most %d positional arguments, got %d",
			call.Lineno, len(versionArgs), len(call.Args))
	}

	args := make(map[string]ast.Expr, len(versionArgs)+1)
	for i, arg := range call.Args {
		args[versionArgs[i]] = arg
	}
	for _, kw := range call.Keywords {
		name := string(kw.Arg)
		if _, dup := args[name]; dup {
			return Version{}, fmt.Errorf("line %d: duplicate argument %q", call.Lineno, name)
		}
		args[name] = kw.Value
	}

	var v Version
	for name := range args {
		switch name {
		case "package", "major", "minor", "micro", "prerelease":
		default:
			return Version{}, fmt.Errorf("line %d: unexpected argument %q", call.Lineno, name)
		}
	}

	pkg, ok := args["package"]
	if !ok {
		return Version{}, fmt.Errorf("line %d: missing package argument", call.Lineno)
	}
	s, ok := pkg.(*ast.Str)
	if !ok {
		return Version{}, fmt.Errorf("line %d: package must be a string literal", call.Lineno)
	}
	v.Package = string(s.S)

	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"major", &v.Major},
		{"minor", &v.Minor},
		{"micro", &v.Micro},
	} {
		expr, ok := args[field.name]
		if !ok {
			return Version{}, fmt.Errorf("line %d: missing %s argument", call.Lineno, field.name)
		}
		n, err := intLiteral(expr)
		if err != nil {
			return Version{}, fmt.Errorf("line %d: %s: %w", call.Lineno, field.name, err)
		}
		*field.dst = n
	}

	if expr, ok := args["prerelease"]; ok && !isNone(expr) {
		n, err := intLiteral(expr)
		if err != nil {
			return Version{}, fmt.Errorf("line %d: prerelease: %w", call.Lineno, err)
		}
		v.Prerelease = &n
	}
	return v, nil
}

func intLiteral(expr ast.Expr) (int, error) {
	num, ok := expr.(*ast.Num)
	if !ok {
		return 0, fmt.Errorf("expected an integer literal, got %s", expr.Type().Name)
	}
	n, ok := num.N.(py.Int)
	if !ok {
		return 0, fmt.Errorf("expected an integer literal, got %s", num.N.Type().Name)
	}
	return int(n), nil
}

func isNone(expr ast.Expr) bool {
	c, ok := expr.(*ast.NameConstant)
	return ok && c.Value == py.None
}
