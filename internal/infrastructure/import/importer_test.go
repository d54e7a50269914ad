package xmlimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseCatalog(t *testing.T) {
	t.Run("parses well-formed products", func(t *testing.T) {
		input := `<?xml version="1.0" encoding="UTF-8"?>
<catalog>
	<product>
		<id>100</id>
		<name>Mortise Lock</name>
		<categoryPath>Hardware/Locks</categoryPath>
		<photo>https://cdn/p.jpg</photo>
		<stock>5</stock>
		<quantityPerPack>1</quantityPerPack>
		<isNew>true</isNew>
	</product>
	<product>
		<id>101</id>
		<name>Handle</name>
		<categoryPath>Hardware/Handles</categoryPath>
		<isSale>Да</isSale>
	</product>
</catalog>`

		rows, report, err := ParseCatalog(strings.NewReader(input), zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, 2, report.Parsed)
		assert.Equal(t, 0, report.Skipped)
		require.Len(t, rows, 2)

		assert.Equal(t, int64(100), rows[0].ID)
		assert.Equal(t, "Mortise Lock", rows[0].Name)
		assert.Equal(t, 5, rows[0].Stock)
		assert.True(t, rows[0].IsNew)
		assert.True(t, rows[1].IsSale)
	})

	t.Run("skips unusable blocks but keeps the rest", func(t *testing.T) {
		input := `<catalog>
	<product>
		<id>garbage</id>
		<name>Broken</name>
		<categoryPath>Hardware/Locks</categoryPath>
	</product>
	<product>
		<id>102</id>
		<name></name>
		<categoryPath>Hardware/Locks</categoryPath>
	</product>
	<product>
		<id>103</id>
		<name>Survivor</name>
		<categoryPath>Hardware/Locks</categoryPath>
		<stock>-4</stock>
	</product>
</catalog>`

		rows, report, err := ParseCatalog(strings.NewReader(input), zap.NewNop())
		require.NoError(t, err)

		assert.Equal(t, 1, report.Parsed)
		assert.Equal(t, 2, report.Skipped)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(103), rows[0].ID)
		assert.Equal(t, 0, rows[0].Stock, "negative stock is clamped to zero")
	})

	t.Run("empty catalog is an error", func(t *testing.T) {
		_, _, err := ParseCatalog(strings.NewReader("<catalog></catalog>"), zap.NewNop())
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("truncated document fails", func(t *testing.T) {
		input := `<catalog><product><id>100</id>`
		_, _, err := ParseCatalog(strings.NewReader(input), zap.NewNop())
		assert.Error(t, err)
	})
}
