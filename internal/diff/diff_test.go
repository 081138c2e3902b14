package diff

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

func TestCompare_Classification(t *testing.T) {
	t.Parallel()

	oldAssets := []stats.Asset{
		{Name: "main.js", Size: 1000},
		{Name: "vendor.js", Size: 5000},
		{Name: "legacy.js", Size: 300},
	}
	newAssets := []stats.Asset{
		{Name: "main.js", Size: 1200},
		{Name: "vendor.js", Size: 5000},
		{Name: "styles.css", Size: 400},
	}

	result := Compare(oldAssets, newAssets)

	require.Len(t, result.Added, 1)
	assert.Equal(t, "styles.css", result.Added[0].Name)
	assert.Equal(t, int64(400), result.Added[0].Delta)

	require.Len(t, result.Removed, 1)
	assert.Equal(t, "legacy.js", result.Removed[0].Name)
	assert.Equal(t, int64(-300), result.Removed[0].Delta)

	require.Len(t, result.Changed, 1)
	assert.Equal(t, "main.js", result.Changed[0].Name)
	assert.Equal(t, int64(200), result.Changed[0].Delta)

	assert.Equal(t, int64(6300), result.OldSize)
	assert.Equal(t, int64(6600), result.NewSize)
	assert.Equal(t, int64(300), result.TotalDelta())
	assert.False(t, result.Empty())
}

func TestCompare_Identical(t *testing.T) {
	t.Parallel()

	assets := []stats.Asset{{Name: "main.js", Size: 1000}}

	result := Compare(assets, assets)

	assert.True(t, result.Empty())
	assert.Equal(t, int64(0), result.TotalDelta())
}

func TestCompare_SortsByAbsoluteDelta(t *testing.T) {
	t.Parallel()

	oldAssets := []stats.Asset{
		{Name: "a.js", Size: 100},
		{Name: "b.js", Size: 100},
	}
	newAssets := []stats.Asset{
		{Name: "a.js", Size: 150},
		{Name: "b.js", Size: 600},
	}

	result := Compare(oldAssets, newAssets)

	require.Len(t, result.Changed, 2)
	assert.Equal(t, "b.js", result.Changed[0].Name)
	assert.Equal(t, "a.js", result.Changed[1].Name)
}

func TestPayloads_OnlyChangedLines(t *testing.T) {
	t.Parallel()

	oldPayload := []byte("{\n  \"a\": 1,\n  \"b\": 2\n}\n")
	newPayload := []byte("{\n  \"a\": 1,\n  \"b\": 3\n}\n")

	diffs := Payloads(oldPayload, newPayload)

	require.NotEmpty(t, diffs)

	var sawDelete, sawInsert bool

	for _, d := range diffs {
		assert.NotEqual(t, diffmatchpatch.DiffEqual, d.Type)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sawDelete = true

			assert.Contains(t, d.Text, "\"b\": 2")
		case diffmatchpatch.DiffInsert:
			sawInsert = true

			assert.Contains(t, d.Text, "\"b\": 3")
		case diffmatchpatch.DiffEqual:
		}
	}

	assert.True(t, sawDelete)
	assert.True(t, sawInsert)
}

func TestPayloads_Identical(t *testing.T) {
	t.Parallel()

	payload := []byte("{\n  \"a\": 1\n}\n")

	assert.Empty(t, Payloads(payload, payload))
}
