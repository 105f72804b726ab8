package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Run("types inferred per column", func(t *testing.T) {
		input := strings.Join([]string{
			"Id,Size,Quality,Neighborhood,Price",
			"1,1200,7,CollgCr,208500",
			"2,1450,6,Veenker,181500",
			"3,910,NA,CollgCr,140000",
		}, "\n")

		tbl, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, 3, tbl.NumRows())
		assert.Equal(t, []string{"Id", "Size", "Quality", "Neighborhood", "Price"}, tbl.Names())

		size, _ := tbl.Column("Size")
		assert.Equal(t, KindNumeric, size.Kind)
		assert.Equal(t, []float64{1200, 1450, 910}, size.Floats)

		quality, _ := tbl.Column("Quality")
		assert.Equal(t, KindNumeric, quality.Kind)
		assert.True(t, math.IsNaN(quality.Floats[2]), "NA reads as missing")

		hood, _ := tbl.Column("Neighborhood")
		assert.Equal(t, KindCategorical, hood.Kind)
		assert.Equal(t, []string{"CollgCr", "Veenker", "CollgCr"}, hood.Labels)
	})

	t.Run("one text cell makes the column categorical", func(t *testing.T) {
		input := "A\n1\n2\nx\n"
		tbl, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		col, _ := tbl.Column("A")
		assert.Equal(t, KindCategorical, col.Kind)
		assert.Equal(t, []string{"1", "2", "x"}, col.Labels)
	})

	t.Run("missing markers", func(t *testing.T) {
		input := "Num,Cat\n,x\nNA,NA\nNaN,\n4,y\n"
		tbl, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		num, _ := tbl.Column("Num")
		require.Equal(t, KindNumeric, num.Kind)
		assert.Equal(t, 3, num.MissingCount())
		assert.Equal(t, float64(4), num.Floats[3])

		cat, _ := tbl.Column("Cat")
		require.Equal(t, KindCategorical, cat.Kind)
		assert.Equal(t, []string{"x", "", "", "y"}, cat.Labels)
	})

	t.Run("fully missing column stays numeric", func(t *testing.T) {
		input := "A,B\nNA,x\nNA,y\n"
		tbl, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		col, _ := tbl.Column("A")
		assert.Equal(t, KindNumeric, col.Kind)
		assert.Equal(t, 2, col.MissingCount())
	})

	t.Run("header only gives empty table", func(t *testing.T) {
		tbl, err := ReadCSV(strings.NewReader("A,B\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.NumRows())
		assert.Equal(t, 2, tbl.NumCols())
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing header row")
	})

	t.Run("duplicate header rejected", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("A,A\n1,2\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate column name")
	})

	t.Run("ragged row rejected", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("A,B\n1\n"))
		require.Error(t, err)
	})
}

func TestLoadCSV(t *testing.T) {
	t.Run("round trip through file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "train.csv")
		content := "Size,Price\n1200,208500\n1450,181500\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		tbl, err := LoadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.NumRows())
	})

	t.Run("missing file reported", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open dataset")
	})
}
