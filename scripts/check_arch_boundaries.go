package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// allowed maps a source package to the internal packages it may import.
// Everything under cmd/ is checked as "cmd".
var allowed = map[string]map[string]bool{
	"cmd": {
		"cli": true,
	},
	"cli": {
		"config":  true,
		"export":  true,
		"feed":    true,
		"filter":  true,
		"jdapi":   true,
		"logging": true,
		"model":   true,
		"scroll":  true,
		"version": true,
	},
	"config": {
		"filter": true,
		"jdapi":  true,
	},
	"logging": {
		"config": true,
	},
	"export": {
		"feed":   true,
		"filter": true,
		"model":  true,
	},
	"feed": {
		"filter": true,
		"model":  true,
	},
	"jdapi": {
		"model": true,
	},
	"filter": {
		"model": true,
	},
	"model":   {},
	"scroll":  {},
	"version": {},
}

func main() {
	var violations []string
	for _, root := range []string{"cmd", "internal"} {
		found, err := checkTree(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "boundary walk of %s failed: %v\n", root, err)
			os.Exit(1)
		}
		violations = append(violations, found...)
	}

	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "architecture boundary violations detected:")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "- %s\n", v)
		}
		os.Exit(1)
	}
	fmt.Println("architecture boundary check: OK")
}

// checkTree parses the imports of every non-test Go file under root.
func checkTree(root string) ([]string, error) {
	var violations []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		srcPkg := sourcePackage(path)
		if srcPkg == "" {
			return nil
		}
		allowMap, ok := allowed[srcPkg]
		if !ok {
			violations = append(violations, fmt.Sprintf("%s: unknown source package %q", path, srcPkg))
			return nil
		}

		file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range file.Imports {
			tgtPkg, ok := targetPackage(strings.Trim(imp.Path.Value, `"`))
			if !ok || tgtPkg == srcPkg {
				continue
			}
			if !allowMap[tgtPkg] {
				violations = append(violations, fmt.Sprintf("%s: %s -> %s is forbidden", path, srcPkg, tgtPkg))
			}
		}
		return nil
	})
	return violations, err
}

func sourcePackage(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) < 2 {
		return ""
	}
	switch parts[0] {
	case "cmd":
		return "cmd"
	case "internal":
		return parts[1]
	default:
		return ""
	}
}

func targetPackage(importPath string) (string, bool) {
	const prefix = "job-board/internal/"
	rest, ok := strings.CutPrefix(importPath, prefix)
	if !ok || rest == "" {
		return "", false
	}
	pkg, _, _ := strings.Cut(rest, "/")
	return pkg, true
}
