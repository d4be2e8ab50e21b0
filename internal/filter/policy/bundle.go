package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// ErrNoModules is returned when a bundle directory holds no policy modules.
var ErrNoModules = errors.New("no rego modules")

// module is one policy source file, named by its slash path inside the bundle.
type module struct {
	name string
	src  string
}

// readBundle collects every .rego file below root, subdirectories included,
// sorted by path so compile errors are reported in a stable order. Rego unit
// tests (*_test.rego) are skipped because they are not part of the policy.
func readBundle(root string) ([]module, error) {
	fsys := os.DirFS(root)
	var modules []module
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".rego" || strings.HasSuffix(p, "_test.rego") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		modules = append(modules, module{name: p, src: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read policy bundle %s: %w", root, err)
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoModules, root)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].name < modules[j].name })
	return modules, nil
}
