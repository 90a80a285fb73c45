package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/types"
)

func TestDefaultChartLookups(t *testing.T) {
	t.Parallel()

	chart, err := Default()
	require.NoError(t, err)
	require.NoError(t, chart.Validate())
	assert.Equal(t, DefaultName, chart.Name)

	tests := []struct {
		name  string
		kind  Kind
		total int
		up    deck.Rank
		want  Action
	}{
		{"hard 16 vs ten hits", KindHard, 16, deck.Ten, Hit},
		{"hard 16 vs king hits", KindHard, 16, deck.King, Hit},
		{"hard 16 vs six stands", KindHard, 16, deck.Six, Stand},
		{"hard 11 vs ten doubles", KindHard, 11, deck.Ten, Double},
		{"hard 11 vs ace hits", KindHard, 11, deck.Ace, Hit},
		{"hard 12 vs two hits", KindHard, 12, deck.Two, Hit},
		{"hard 4 hits", KindHard, 4, deck.Five, Hit},
		{"hard 21 stands", KindHard, 21, deck.Ace, Stand},
		{"soft 17 vs three doubles", KindSoft, 17, deck.Three, Double},
		{"soft 18 vs nine hits", KindSoft, 18, deck.Nine, Hit},
		{"soft 18 vs eight stands", KindSoft, 18, deck.Eight, Stand},
		{"soft 12 hits", KindSoft, 12, deck.Six, Hit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Action
			var err error
			if tt.kind == KindHard {
				got, err = chart.Hard(tt.total, tt.up)
			} else {
				got, err = chart.Soft(tt.total, tt.up)
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultChartSplits(t *testing.T) {
	t.Parallel()

	chart, err := Default()
	require.NoError(t, err)

	tests := []struct {
		pair deck.Rank
		up   deck.Rank
		want bool
	}{
		{deck.Ace, deck.Ace, true},
		{deck.Eight, deck.Ten, true},
		{deck.Ten, deck.Six, false},
		{deck.King, deck.Six, false},
		{deck.Nine, deck.Seven, false},
		{deck.Nine, deck.Eight, true},
		{deck.Five, deck.Five, false},
		{deck.Four, deck.Five, true},
	}

	for _, tt := range tests {
		got, err := chart.Split(tt.pair, tt.up)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "pair %s vs %s", tt.pair, tt.up)
	}
}

func TestHCLAndYAMLChartsAgree(t *testing.T) {
	t.Parallel()

	fromHCL, err := Default()
	require.NoError(t, err)
	fromYAML, err := Load(filepath.Join("testdata", "basic.yaml"))
	require.NoError(t, err)

	for _, kind := range Kinds {
		for _, row := range Rows(kind) {
			for _, col := range Columns {
				key := Key{Row: row, Dealer: col}
				assert.Equal(t, fromHCL.Cell(kind, key), fromYAML.Cell(kind, key), "%s %v", kind, key)
			}
		}
	}
}

func TestIncompleteChartIsConfigurationError(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join("testdata", "incomplete.hcl"))
	require.Error(t, err)
	assert.True(t, types.IsConfigurationError(err))
	assert.True(t, types.IsGameError(err, types.ErrMissingPolicyKey))
	assert.Contains(t, err.Error(), "16 vs dealer 2")
}

func TestEmptyChartIsConfigurationError(t *testing.T) {
	t.Parallel()

	_, err := ParseHCL([]byte(`name = "empty"`), "empty.hcl")
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrEmptyPolicy))

	_, err = ParseYAML([]byte("name: empty\ntables: []\n"), "empty.yaml")
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrEmptyPolicy))
}

func TestBuildRejectsMalformedTables(t *testing.T) {
	t.Parallel()

	cols := []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}
	row := "H H H H H H H H H H"
	tests := []struct {
		name   string
		tables []rawTable
	}{
		{"unknown kind", []rawTable{{Kind: "insurance", Dealer: cols, Rows: map[string]string{"4": row}}}},
		{"short row", []rawTable{{Kind: "hard", Dealer: cols, Rows: map[string]string{"4": "H H"}}}},
		{"bad code", []rawTable{{Kind: "hard", Dealer: cols, Rows: map[string]string{"4": "H H H H H H H H H X"}}}},
		{"bad split code", []rawTable{{Kind: "pairs", Dealer: cols, Rows: map[string]string{"A": row}}}},
		{"bad range", []rawTable{{Kind: "soft", Dealer: cols, Rows: map[string]string{"18-13": row}}}},
		{"bad dealer", []rawTable{{Kind: "hard", Dealer: []string{"1"}, Rows: map[string]string{"4": "H"}}}},
		{"overlapping range", []rawTable{{Kind: "hard", Dealer: cols, Rows: map[string]string{"4-16": row, "12": "S S S S S S S S S S"}}}},
		{"same pair twice", []rawTable{{Kind: "pairs", Dealer: cols, Rows: map[string]string{"10": "N N N N N N N N N N", "K": "Y Y Y Y Y Y Y Y Y Y"}}}},
		{"repeated dealer column", []rawTable{{Kind: "hard", Dealer: []string{"2", "2"}, Rows: map[string]string{"4": "H S"}}}},
		{"duplicate kind", []rawTable{
			{Kind: "hard", Dealer: cols, Rows: map[string]string{"4-11": row}},
			{Kind: "HARD", Dealer: cols, Rows: map[string]string{"12-21": row}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build("bad", tt.tables)
			require.Error(t, err)
			assert.True(t, types.IsGameError(err, types.ErrInvalidPolicyCell))
		})
	}
}

func TestOverlappingRowsAreRejectedEveryTime(t *testing.T) {
	t.Parallel()

	src := []byte(`
table "hard" {
  dealer = ["2", "3", "4", "5", "6", "7", "8", "9", "10", "A"]
  rows = {
    "4-16"  = "H H H H H H H H H H"
    "12"    = "S S S S S S S S S S"
    "17-21" = "S S S S S S S S S S"
  }
}
`)
	// Row keys come from a map; every load must fail the same way.
	for range 50 {
		_, err := ParseHCL(src, "overlap.hcl")
		require.Error(t, err)
		assert.True(t, types.IsGameError(err, types.ErrInvalidPolicyCell))
		assert.Contains(t, err.Error(), "12 vs 2 defined twice")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chart.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsConfigurationError(err))
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	t.Parallel()

	chart, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Same(t, def, chart)
}

func TestChartNameFallsBackToFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mine", chartName("mine", "x.hcl"))
	assert.Equal(t, "aggressive", chartName("", "/tmp/aggressive.yaml"))
}
