package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mburaksayici/legal-rag/core"
)

// EnumerateDocuments expands a source path into the list of document refs an
// ingestion job will process. A file path yields a single ref; a directory
// yields every supported document directly inside it, sorted by name so task
// ordering is deterministic across runs. Subdirectories are not descended
// into.
func EnumerateDocuments(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", core.ErrSourceNotFound, source)
		}
		return nil, fmt.Errorf("%w: stat %q: %v", core.ErrSourceNotFound, source, err)
	}

	if !info.IsDir() {
		if !Supported(source) {
			return nil, fmt.Errorf("%w: unsupported document format %q", core.ErrExtraction, filepath.Ext(source))
		}
		return []string{source}, nil
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", core.ErrSourceNotFound, source, err)
	}

	var refs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(source, entry.Name())
		if Supported(path) {
			refs = append(refs, path)
		}
	}
	sort.Strings(refs)

	return refs, nil
}
