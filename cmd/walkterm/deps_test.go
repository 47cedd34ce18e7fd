package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "github.com/decker502/walkers"

// TestNoEbitenDependency 终端版本只依赖 tcell，本地依赖闭包中不应出现 ebiten
func TestNoEbitenDependency(t *testing.T) {
	root, err := filepath.Abs("../..")
	if err != nil {
		t.Fatalf("failed to resolve module root: %v", err)
	}

	seen := map[string]bool{}
	var visit func(dir string)
	visit = func(dir string) {
		if seen[dir] {
			return
		}
		seen[dir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read %s: %v", dir, err)
		}
		fset := token.NewFileSet()
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("failed to parse %s: %v", name, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				rel, _ := filepath.Rel(root, filepath.Join(dir, name))
				if strings.HasPrefix(path, "github.com/hajimehoshi/ebiten") {
					t.Errorf("%s imports %s", rel, path)
				}
				if strings.HasPrefix(path, modulePath+"/") {
					visit(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, modulePath+"/"))))
				}
			}
		}
	}
	visit(filepath.Join(root, "cmd", "walkterm"))

	if !seen[filepath.Join(root, "pkg", "render", "term")] {
		t.Error("walkterm should draw through pkg/render/term")
	}
}
