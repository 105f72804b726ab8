// Package validation provides pre-flight checks for the files the
// pipeline reads and writes. Failing fast here keeps a bad path from
// surfacing minutes later as a mid-run stage failure.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// DatasetExtensions lists the file extensions the dataset loaders accept.
var DatasetExtensions = []string{".csv", ".xlsx", ".xlsm"}

// FileValidator checks input and output paths before the pipeline runs.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateDatasetFile checks that path names a readable dataset file with
// a supported extension. Violations come back as config errors so callers
// can distinguish a bad path from an environment failure.
func (v *FileValidator) ValidateDatasetFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Dataset file does not exist", "file", path)
		return apperrors.NewConfigError(fmt.Sprintf("dataset file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat dataset file", "file", path, "error", err)
		return fmt.Errorf("failed to stat dataset file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Dataset path is a directory, not a file", "path", path)
		return apperrors.NewConfigError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtension(ext) {
		v.logger.Error("Dataset file has an unsupported extension",
			"file", path,
			"extension", ext)
		return apperrors.NewConfigError(fmt.Sprintf("dataset file %s has unsupported extension %q (want one of %s)",
			path, ext, strings.Join(DatasetExtensions, ", ")), nil)
	}

	// Excel leaves ~$-prefixed lock files next to open workbooks
	if base := filepath.Base(path); strings.HasPrefix(base, "~$") {
		v.logger.Error("Dataset path is an Excel lock file", "file", path)
		return apperrors.NewConfigError(fmt.Sprintf("%s is an Excel lock file, not a workbook", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Dataset file is not readable", "file", path, "error", err)
		return apperrors.NewConfigError(fmt.Sprintf("dataset file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("Dataset file validated", "file", path, "size", info.Size())
	return nil
}

// ValidateOutputDirectory ensures the report directory exists and is
// writable, creating it when absent.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory", "directory", dir, "error", err)
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// A write probe catches read-only mounts that MkdirAll does not
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable", "directory", dir, "error", err)
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", "directory", dir)
	return nil
}

func supportedExtension(ext string) bool {
	for _, want := range DatasetExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
