// Command depscheck enforces the package layering: the game core and the
// simulation loop stay transport-agnostic and the event log depends on
// nothing internal.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type rule struct {
	packages  string
	forbidden []string
}

var rules = []rule{
	{
		packages: "./internal/game/...",
		forbidden: []string{
			"tower-wars/server/internal/hub",
			"tower-wars/server/internal/net",
			"tower-wars/server/internal/sim",
			"github.com/gorilla/websocket",
			"net/http",
		},
	},
	{
		packages: "./internal/sim/...",
		forbidden: []string{
			"tower-wars/server/internal/game",
			"tower-wars/server/internal/hub",
			"tower-wars/server/internal/net",
		},
	},
	{
		packages:  "./logging/...",
		forbidden: []string{"tower-wars/server/internal"},
	},
}

type packageInfo struct {
	ImportPath string
	Imports    []string
}

func main() {
	var violations []string
	for _, r := range rules {
		pkgs, err := listPackages(r.packages)
		if err != nil {
			fmt.Fprintf(os.Stderr, "depscheck: %v\n", err)
			os.Exit(1)
		}
		for _, pkg := range pkgs {
			for _, imp := range pkg.Imports {
				if matchesAny(imp, r.forbidden) {
					violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
				}
			}
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

func listPackages(pattern string) ([]packageInfo, error) {
	cmd := exec.Command("go", "list", "-json", pattern)
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Stderr.Write(exitErr.Stderr)
		}
		return nil, fmt.Errorf("list %s: %w", pattern, err)
	}

	var pkgs []packageInfo
	decoder := json.NewDecoder(bytes.NewReader(output))
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				return pkgs, nil
			}
			return nil, fmt.Errorf("decode package info: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}
}

func matchesAny(imp string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if imp == prefix || strings.HasPrefix(imp, prefix+"/") {
			return true
		}
	}
	return false
}
