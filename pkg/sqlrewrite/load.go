package sqlrewrite

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// patchFile is the on-disk patch catalog shape:
//
//	patches:
//	  - statement: listTablesByCatalog
//	    qualifiers: [t, c]
//	    insert_before: ORDER BY
//	  - statement: countActiveJobs
//	    skip_deleted_at_hints: true
type patchFile struct {
	Patches []patchSpec `yaml:"patches"`
}

type patchSpec struct {
	Statement          string   `yaml:"statement"`
	Qualifiers         []string `yaml:"qualifiers"`
	InsertBefore       string   `yaml:"insert_before"`
	SkipDeletedAtHints bool     `yaml:"skip_deleted_at_hints"`
}

// LoadRegistry reads a YAML patch catalog and returns a frozen registry.
// Catalog defects (bad YAML, duplicate or malformed entries) fail loading,
// so a broken catalog stops startup instead of degrading tenant isolation
// at query time.
func LoadRegistry(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrFailedToParsePatchFile, err)
	}

	var file patchFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrFailedToParsePatchFile, err)
	}

	reg := NewRegistry()
	for _, spec := range file.Patches {
		patch := Patch{
			Qualifiers:         spec.Qualifiers,
			InsertBefore:       spec.InsertBefore,
			SkipDeletedAtHints: spec.SkipDeletedAtHints,
		}
		if err := reg.Register(spec.Statement, patch); err != nil {
			return nil, fmt.Errorf("patch catalog: %w", err)
		}
	}
	return reg.Freeze(), nil
}

// LoadRegistryFile is LoadRegistry over a file path.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToParsePatchFile, err)
	}
	defer f.Close()
	return LoadRegistry(f)
}
