package sink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertRow(t *testing.T) {
	converted, err := convertRow([]string{"USA", "Forest", "8.5"}, 2)
	require.NoError(t, err)
	require.Len(t, converted, 4)

	assert.IsType(t, "", converted[0], "first field should be a generated string row ID")
	assert.Equal(t, "USA", converted[1])
	assert.Equal(t, "Forest", converted[2])
	assert.Equal(t, 8.5, converted[3])
}

func TestConvertRowWithoutValueColumn(t *testing.T) {
	converted, err := convertRow([]string{"ref", "2020-01-01"}, -1)
	require.NoError(t, err)
	require.Len(t, converted, 3)
	assert.Equal(t, "ref", converted[1])
	assert.Equal(t, "2020-01-01", converted[2])
}

func TestConvertRowNonNumericValue(t *testing.T) {
	_, err := convertRow([]string{"USA", "not-a-number"}, 1)
	require.Error(t, err)
}

func TestWriteIdentifier(t *testing.T) {
	var query strings.Builder
	require.NoError(t, writeIdentifier(&query, "land_allocation"))
	assert.Equal(t, "`land_allocation`", query.String())

	var invalid strings.Builder
	require.Error(t, writeIdentifier(&invalid, "bad`name"))
}
