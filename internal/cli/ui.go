package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/scribe"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleLiteral for outermost literals in listings.
	StyleLiteral = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// Markers shown in the role column of a listing.
const (
	markLiteral = "literal"
	markHidden  = "hidden"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints render statistics on a single line.
func printStats(w io.Writer, entries, edges, literals int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d entries", entries),
		fmt.Sprintf("%d edges", edges),
	}
	if literals > 0 {
		parts = append(parts, fmt.Sprintf("%d literals", literals))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			line.WriteString(StyleDim.Render(" · "))
		}
		line.WriteString(StyleDim.Render(part))
	}
	line.WriteString(StyleDim.Render(" · "))
	line.WriteString(statusStyle.Render(status))
	fmt.Fprintln(w, line.String())
}

// =============================================================================
// Program Listing
// =============================================================================

// programTable renders the nodes reachable from the root, children first,
// one row per node. Outermost literals are marked "literal" and the nodes
// nested inside them "hidden".
func programTable(p *dag.Program, an scribe.Analysis) string {
	order := p.Arena.PostOrder(p.Root)
	rows := make([][]string, 0, len(order))
	roles := make([]string, 0, len(order))

	for _, i := range order {
		n := p.Arena.Node(i)
		id := n.Identity()

		role := ""
		value := ""
		switch {
		case an.Hidden.Contains(id):
			role = markHidden
		default:
			if v, ok := an.Top[id]; ok {
				role = markLiteral
				value = v.String()
			}
		}

		children := make([]string, 0, 2)
		for _, c := range n.Children() {
			children = append(children, strconv.Itoa(c))
		}

		name := n.Shape.String()
		if n.Shape == dag.ShapeJet {
			name = n.Jet
		}

		rows = append(rows, []string{
			strconv.Itoa(i),
			name,
			strings.Join(children, " "),
			role,
			value,
			id.Short(),
		})
		roles = append(roles, role)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Node", "Children", "Role", "Value", "Identity").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if row < 0 || row >= len(roles) {
				return base
			}
			switch roles[row] {
			case markLiteral:
				return base.Inherit(StyleLiteral)
			case markHidden:
				return base.Inherit(StyleDim)
			}
			if col == 5 {
				return base.Inherit(StyleDim)
			}
			return base
		})

	return t.Render()
}
