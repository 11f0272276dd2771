// Package catalog holds the card templates offered in the palette and the
// demo diagram.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"procflow/internal/diagram"
)

const (
	cardWidth  = 160
	cardHeight = 140
	pathWidth  = 140
	pathHeight = 120
)

var builtin = []diagram.Template{
	{
		Title:       "Assembly",
		Description: "During assembly, the order is assembled and checked using the materials supplied.",
		Icon:        "🔧",
		Color:       "#D4A574",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Material order",
		Description: "All non-stocked materials for construction are recorded and ordered here.",
		Icon:        "🛍️",
		Color:       "#4CAF50",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Waiting time",
		Description: "The previous step finishes faster than the next one can begin.",
		Icon:        "⏳",
		SubLabel:    "Order",
		Color:       "#9E9E9E",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Commissioning",
		Description: "All materials required for the order are compiled and delivered to the assembly department.",
		Icon:        "📦",
		Color:       "#2196F3",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Waiting time",
		Description: "A step produces more or faster than the following one can handle.",
		Icon:        "⏳",
		SubLabel:    "Material",
		Color:       "#9E9E9E",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Waiting time",
		Description: "The next step is delayed due to unavailable or occupied resources.",
		Icon:        "⏳",
		SubLabel:    "Product",
		Color:       "#9E9E9E",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Packaging and shipping",
		Description: "The order is secured, packaged, labeled and then released for dispatch.",
		Icon:        "📤",
		Color:       "#2196F3",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "New customer in database",
		Description: "For new customers the names and addresses are entered into the database.",
		Icon:        "💾",
		Color:       "#E91E63",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Repeat Order",
		Description: "A repeat order is a new order placed again, usually due to a good experience.",
		Icon:        "📋",
		Color:       "#F5F5F5",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Packaging for employees",
		Description: "All packages intended for employees and their private use are packed here.",
		Icon:        "📦",
		Color:       "#2196F3",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Customer Path",
		Description: "Customer delivery path",
		Icon:        "👤",
		Color:       "#F5F5F5",
		Width:       pathWidth,
		Height:      pathHeight,
	},
	{
		Title:       "Employee Path",
		Description: "Employee delivery path",
		Icon:        "👥",
		Color:       "#F5F5F5",
		Width:       pathWidth,
		Height:      pathHeight,
	},
	{
		Title:       "Random Sample Check",
		Description: "Quality control check",
		Icon:        "🔍",
		Color:       "#F5F5F5",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Key issues audit",
		Description: "Every hundredth package is checked for quality. Both the package itself and its contents.",
		Icon:        "🔍",
		Color:       "#009688",
		Width:       cardWidth,
		Height:      cardHeight,
	},
	{
		Title:       "Connection to...",
		Description: "Assembly connection",
		Icon:        "🔗",
		Color:       "#9E9E9E",
		Width:       cardWidth,
		Height:      cardHeight,
	},
}

// Templates returns a copy of the built-in palette, in display order.
func Templates() []diagram.Template {
	out := make([]diagram.Template, len(builtin))
	copy(out, builtin)
	return out
}

type file struct {
	Templates []diagram.Template `yaml:"templates"`
}

// LoadFile reads a palette from a YAML document with a top-level
// "templates" list. Width and height default to the standard card size.
func LoadFile(path string) ([]diagram.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("catalog %s has no templates", path)
	}

	for i := range f.Templates {
		t := &f.Templates[i]
		if t.Title == "" {
			return nil, fmt.Errorf("catalog %s: template %d has no title", path, i+1)
		}
		if t.Width <= 0 {
			t.Width = cardWidth
		}
		if t.Height <= 0 {
			t.Height = cardHeight
		}
	}
	return f.Templates, nil
}

// Load returns the palette from path, or the built-in one when path is empty.
func Load(path string) ([]diagram.Template, error) {
	if path == "" {
		return Templates(), nil
	}
	return LoadFile(path)
}
