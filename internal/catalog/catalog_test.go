package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procflow/internal/diagram"
	"procflow/internal/grid"
)

func TestTemplates(t *testing.T) {
	templates := Templates()

	require.Len(t, templates, 15)
	assert.Equal(t, "Assembly", templates[0].Title)
	assert.Equal(t, "Connection to...", templates[14].Title)
	for _, tpl := range templates {
		assert.NotEmpty(t, tpl.Title)
		assert.Positive(t, tpl.Width)
		assert.Positive(t, tpl.Height)
	}

	templates[0].Title = "changed"
	assert.Equal(t, "Assembly", Templates()[0].Title, "catalog must not be mutable through the returned slice")
}

func TestDemo(t *testing.T) {
	g := grid.Default()
	cards, conns := Demo(g)

	require.Len(t, cards, 15)
	require.Len(t, conns, 14)

	ids := map[string]bool{}
	positions := map[grid.Point]bool{}
	for _, c := range cards {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		assert.False(t, positions[c.Position()], "two demo cards share %v", c.Position())
		positions[c.Position()] = true
		assert.Equal(t, c.Position(), g.Snap(c.Position()), "demo card %s is off-grid", c.ID)
	}
	for _, conn := range conns {
		assert.True(t, ids[conn.From], "%s: unknown from %s", conn.ID, conn.From)
		assert.True(t, ids[conn.To], "%s: unknown to %s", conn.ID, conn.To)
		assert.NotEqual(t, conn.From, conn.To)
		assert.True(t, conn.Kind.Valid())
	}

	assert.Equal(t, diagram.Connection{ID: "conn6", From: "1", To: "7", Kind: diagram.KindParallel, Label: "parallel to"}, conns[5])
	assert.Equal(t, grid.Point{X: 1760, Y: 440}, cards[14].Position())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "palette.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
templates:
  - title: Inspect
    description: Visual inspection
    icon: "🔍"
    color: "#009688"
  - title: Ship
    sub_label: Express
    width: 140
    height: 120
`), 0o644))

		got, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, diagram.Template{
			Title: "Inspect", Description: "Visual inspection", Icon: "🔍", Color: "#009688",
			Width: 160, Height: 140,
		}, got[0])
		assert.Equal(t, "Express", got[1].SubLabel)
		assert.Equal(t, 140.0, got[1].Width)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"empty", "templates: []\n"},
			{"bad yaml", "templates: [\n"},
			{"missing title", "templates:\n  - icon: x\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(dir, tt.name+".yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
				_, err := LoadFile(path)
				assert.Error(t, err)
			})
		}

		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty path uses builtin", func(t *testing.T) {
		got, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Templates(), got)
	})
}
