package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cloudydeno/module-visualizer/pkg/registry"
)

// swatchColors maps the Graphviz color names of the legend to terminal
// colors.
var swatchColors = map[string]string{
	"lightgreen":     "#90ee90",
	"lightskyblue":   "#87cefa",
	"greenyellow":    "#adff2f",
	"blanchedalmond": "#ffebcd",
	"burlywood":      "#deb887",
	"wheat":          "#f5deb3",
	"chocolate":      "#d2691e",
	"violet":         "#ee82ee",
	"darkturquoise":  "#00ced1",
	"palevioletred":  "#db7093",
	"rosybrown":      "#bc8f8f",
	"yellowgreen":    "#9acd32",
	"lightsalmon":    "#ffa07a",
	"darkorange":     "#ff8c00",
	"salmon":         "#fa8072",
	"silver":         "#c0c0c0",
}

func (c *CLI) registryKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registry-key",
		Short: "Print the node color legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeRegistryKey(cmd.OutOrStdout(), registry.ColorKey)
			return nil
		},
	}
}

// writeRegistryKey prints one swatch line per entry, registries first.
func writeRegistryKey(w io.Writer, key []registry.ColorEntry) {
	fmt.Fprintln(w, StyleTitle.Render("Registries"))
	for _, e := range key {
		if e.IsRegistry() {
			fmt.Fprintln(w, swatchLine(e))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Other"))
	for _, e := range key {
		if !e.IsRegistry() {
			fmt.Fprintln(w, swatchLine(e))
		}
	}
}

func swatchLine(e registry.ColorEntry) string {
	swatch := lipgloss.NewStyle().Width(4)
	if hex, ok := swatchColors[strings.ToLower(e.Color)]; ok {
		swatch = swatch.Background(lipgloss.Color(hex))
	}
	name := lipgloss.NewStyle().Width(22).Render(e.Key)
	return "  " + swatch.Render("") + " " + StyleValue.Render(name) + " " + StyleDim.Render(e.Color)
}
