package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

func TestFileValidator_ValidateDatasetFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		wantKind      apperrors.Kind
		errorContains string
	}{
		{
			name: "valid CSV file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "houses.csv")
				require.NoError(t, os.WriteFile(path, []byte("Id,SalePrice\n1,208500\n"), 0644))
				return path
			},
			wantErr: false,
		},
		{
			name: "valid XLSX extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "houses.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("stub"), 0644))
				return path
			},
			wantErr: false,
		},
		{
			name: "uppercase extension accepted",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "HOUSES.CSV")
				require.NoError(t, os.WriteFile(path, []byte("Id\n1\n"), 0644))
				return path
			},
			wantErr: false,
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantErr:       true,
			wantKind:      apperrors.KindConfig,
			errorContains: "does not exist",
		},
		{
			name: "path is directory not file",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			wantKind:      apperrors.KindConfig,
			errorContains: "is a directory",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "houses.txt")
				require.NoError(t, os.WriteFile(path, []byte("Id\n1\n"), 0644))
				return path
			},
			wantErr:       true,
			wantKind:      apperrors.KindConfig,
			errorContains: "unsupported extension",
		},
		{
			name: "Excel lock file rejected",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$houses.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("lock"), 0644))
				return path
			},
			wantErr:       true,
			wantKind:      apperrors.KindConfig,
			errorContains: "lock file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(nil)
			path := tt.setupFunc(t)

			err := validator.ValidateDatasetFile(path)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errorContains != "" {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	t.Run("existing directory passes", func(t *testing.T) {
		validator := NewFileValidator(nil)
		assert.NoError(t, validator.ValidateOutputDirectory(t.TempDir()))
	})

	t.Run("missing directory is created", func(t *testing.T) {
		validator := NewFileValidator(nil)
		dir := filepath.Join(t.TempDir(), "reports", "2026")

		require.NoError(t, validator.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("write probe leaves no residue", func(t *testing.T) {
		validator := NewFileValidator(nil)
		dir := t.TempDir()

		require.NoError(t, validator.ValidateOutputDirectory(dir))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
