// Package testutil holds test helpers that pin the package layering: the
// entity layer stays free of the store, and the store stays free of the
// storage substrates.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const module = "academycore"

// backendImports are the driver and SDK import paths only substrate packages
// may pull in.
var backendImports = []string{
	"database/sql",
	"github.com/jackc/pgx",
	"modernc.org/sqlite",
	"github.com/redis/go-redis",
	"github.com/aws/aws-sdk-go-v2",
}

// InternalImport matches any import of a package under academycore/internal.
func InternalImport(path string) bool {
	return path == module+"/internal" || strings.HasPrefix(path, module+"/internal/")
}

// BackendImport matches substrate packages of this module and the drivers
// they are built on.
func BackendImport(path string) bool {
	for _, prefix := range []string{module + "/internal/infra/", module + "/internal/persistence"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, prefix := range backendImports {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// AssertNoDirectImports fails t when a non-test Go file in dir imports a path
// matched by forbidden. Build tags are not evaluated.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(path string) bool, reason string) {
	t.Helper()
	viols, err := ImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	if len(viols) > 0 {
		t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}

// ImportViolations lists "path (in file)" for every forbidden import found in
// the non-test Go files of dir.
func ImportViolations(dir string, forbidden func(path string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range file.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				return nil, err
			}
			if forbidden(path) {
				viols = append(viols, path+" (in "+name+")")
			}
		}
	}
	return viols, nil
}
