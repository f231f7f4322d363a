// Package numbering prefixes dataset file names with a zero-padded sequence
// number so that processing order is visible in directory listings.
package numbering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/oukeidos/tarjama/internal/dataset"
	"github.com/oukeidos/tarjama/internal/files"
	"github.com/oukeidos/tarjama/internal/logger"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// BackupDir is created inside the dataset directory before renaming.
const BackupDir = "backup_before_numbering"

// Rename is one planned file rename.
type Rename struct {
	Old string
	New string
}

// Plan returns the renames for dir in sorted order: 1 of 12 files becomes
// "01_name.json". The mapping file is left alone.
func Plan(dir, mappingFile string) ([]Rename, error) {
	names, err := dataset.ListFiles(dir, mappingFile)
	if err != nil {
		return nil, err
	}
	width := len(strconv.Itoa(len(names)))
	plan := make([]Rename, 0, len(names))
	for i, name := range names {
		plan = append(plan, Rename{Old: name, New: fmt.Sprintf("%0*d_%s", width, i+1, name)})
	}
	return plan, nil
}

// Result describes an applied plan.
type Result struct {
	BackupDir   string
	MappingPath string
	Renamed     int
}

// Apply copies every planned file into BackupDir, renames them and writes
// the old to new mapping. It refuses to start if any target name is taken,
// including by another file of the plan.
func Apply(dir, mappingFile string, plan []Rename) (Result, error) {
	res := Result{
		BackupDir:   filepath.Join(dir, BackupDir),
		MappingPath: filepath.Join(dir, mappingFile),
	}
	if len(plan) == 0 {
		return res, nil
	}

	for _, r := range plan {
		if _, err := os.Lstat(filepath.Join(dir, r.New)); err == nil {
			return res, apperrors.New(apperrors.KindValidation,
				fmt.Sprintf("Target file already exists: %s", r.New), nil)
		}
	}

	if err := os.MkdirAll(res.BackupDir, 0755); err != nil {
		return res, apperrors.IO(err)
	}
	for _, r := range plan {
		dst, renamed, err := files.SafePath(filepath.Join(res.BackupDir, r.Old))
		if err != nil {
			return res, apperrors.IO(err)
		}
		if renamed {
			logger.Debug("Backup name taken, using alternative", "file", r.Old, "backup", filepath.Base(dst))
		}
		if err := files.CopyFile(filepath.Join(dir, r.Old), dst); err != nil {
			return res, apperrors.IO(err)
		}
	}

	for _, r := range plan {
		if err := os.Rename(filepath.Join(dir, r.Old), filepath.Join(dir, r.New)); err != nil {
			return res, apperrors.IO(fmt.Errorf("rename %s: %w", r.Old, err))
		}
		res.Renamed++
		logger.Debug("Renamed file", "file", r.Old, "new_name", r.New)
	}

	data, err := MarshalMapping(plan)
	if err != nil {
		return res, apperrors.IO(err)
	}
	if err := files.AtomicWrite(res.MappingPath, data, files.ModeOf(res.MappingPath, 0644)); err != nil {
		return res, apperrors.IO(err)
	}
	logger.Info("Files numbered", "files", res.Renamed, "backup", res.BackupDir)
	return res, nil
}

// MarshalMapping encodes the plan as a JSON object in plan order.
func MarshalMapping(plan []Rename) ([]byte, error) {
	m := orderedmap.New[string, string]()
	for _, r := range plan {
		m.Set(r.Old, r.New)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
