// Package dataset reads and writes the JSON files of a dataset directory and
// runs translation passes over them.
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/files"
	"github.com/oukeidos/tarjama/internal/record"
)

// ListFiles returns the names of the *.json files in dir, sorted, leaving out
// the mapping file.
func ListFiles(dir, mappingFile string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.IO(err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") || name == mappingFile {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load reads one dataset file. A body that is not an array of objects is a
// parse error.
func Load(path string) ([]*record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IO(err)
	}
	recs, err := record.ParseList(data)
	if err != nil {
		return nil, apperrors.Parse(err)
	}
	return recs, nil
}

// Save writes records back to path in full, atomically, keeping the mode of
// the file it replaces.
func Save(path string, recs []*record.Record, indent int) error {
	data, err := record.MarshalList(recs, indent)
	if err != nil {
		return apperrors.IO(err)
	}
	if err := files.AtomicWrite(path, data, files.ModeOf(path, 0644)); err != nil {
		return apperrors.IO(err)
	}
	return nil
}

// Path joins dir and a listed file name.
func Path(dir, name string) string {
	return filepath.Join(dir, name)
}
