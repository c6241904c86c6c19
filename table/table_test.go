package table_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/gcamquery/table"
)

func TestWriteCSV(t *testing.T) {
	result := table.Table{
		Columns: []string{"region", "value"},
		Rows:    [][]string{{"USA", "8"}, {"Canada", "4"}},
	}

	var buffer bytes.Buffer
	require.NoError(t, result.WriteCSV(&buffer, table.FormatPipe))
	assert.Equal(t, "region|value\nUSA|8\nCanada|4\n", buffer.String())

	buffer.Reset()
	require.NoError(t, result.WriteCSV(&buffer, table.FormatComma))
	assert.Equal(t, "region,value\nUSA,8\nCanada,4\n", buffer.String())
}

func TestReadDeducesDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "pipe", content: "region|land|value\nUSA|Forest|8\nCanada|Crop|4\n"},
		{name: "comma", content: "region,land,value\nUSA,Forest,8\nCanada,Crop,4\n"},
		{name: "tab", content: "region\tland\tvalue\nUSA\tForest\t8\nCanada\tCrop\t4\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := table.Read(strings.NewReader(test.content))
			require.NoError(t, err)

			assert.Equal(t, []string{"region", "land", "value"}, result.Columns)
			require.Len(t, result.Rows, 2)
			assert.Equal(t, []string{"USA", "Forest", "8"}, result.Rows[0])
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "land_allocation.csv")
	require.NoError(
		t, os.WriteFile(path, []byte("region|value\nUSA|8\n"), 0644),
	)

	result, err := table.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "value"}, result.Columns)
	assert.Equal(t, [][]string{{"USA", "8"}}, result.Rows)
}

func TestAppendColumn(t *testing.T) {
	result := table.Table{
		Columns: []string{"name", "date"},
		Rows:    [][]string{{"ref", "2020-01-01"}},
	}

	require.NoError(t, result.AppendColumn("fullyQualifiedName", []string{"ref 2020-01-01"}))
	assert.Equal(t, []string{"name", "date", "fullyQualifiedName"}, result.Columns)
	assert.Equal(t, []string{"ref", "2020-01-01", "ref 2020-01-01"}, result.Rows[0])

	err := result.AppendColumn("mismatched", []string{"a", "b"})
	require.Error(t, err)
}

func TestColumn(t *testing.T) {
	result := table.Table{
		Columns: []string{"name", "date"},
		Rows:    [][]string{{"ref", "2020-01-01"}, {"policy", "2021-06-01"}},
	}

	names, found := result.Column("name")
	require.True(t, found)
	assert.Equal(t, []string{"ref", "policy"}, names)

	_, found = result.Column("missing")
	assert.False(t, found)
}

func TestParseOutputFormat(t *testing.T) {
	for name, expected := range map[string]table.OutputFormat{
		"pipe":      table.FormatPipe,
		"comma":     table.FormatComma,
		"tab":       table.FormatTab,
		"semicolon": table.FormatSemicolon,
	} {
		format, err := table.ParseOutputFormat(name)
		require.NoError(t, err)
		assert.Equal(t, expected, format)
		assert.Equal(t, name, format.String())
		assert.True(t, format.IsValid())
	}

	_, err := table.ParseOutputFormat("fixed-width")
	require.Error(t, err)
}
