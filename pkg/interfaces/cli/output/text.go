package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// Styles used by the text renderer.
type Styles struct {
	Title    lipgloss.Style
	Category lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultStyles returns the terminal palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E7D32")).
			Bold(true),
		Category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1565C0")).
			Bold(true).
			MarginTop(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#757575")),
	}
}

// PlainStyles renders without any styling.
func PlainStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle(),
		Category: lipgloss.NewStyle(),
		Header:   lipgloss.NewStyle().Padding(0, 1),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
		Muted:    lipgloss.NewStyle(),
	}
}

// WriteText writes the list grouped by category, one table per category.
func WriteText(w io.Writer, result *dto.ShoppingResult, styles Styles) error {
	_, err := io.WriteString(w, RenderText(result.List, styles))
	return err
}

// RenderText returns the grouped tables as a string.
func RenderText(list entities.ShoppingList, styles Styles) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("🛒 Lista de Compras"))
	sb.WriteString("\n")

	if list.Len() == 0 {
		sb.WriteString(styles.Muted.Render("Nada a comprar."))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, group := range list.Groups() {
		sb.WriteString(styles.Category.Render("🗂️ " + group.Category.String()))
		sb.WriteString("\n")
		rows := make([][]string, 0, len(group.Rows))
		for _, row := range group.Rows {
			rows = append(rows, []string{row.Item, FormatQuantity(row.Quantity), row.Unit.String()})
		}
		sb.WriteString(renderTable([]string{"Item", "Qtd. Faltante", "Unidade"}, rows, styles))
	}
	sb.WriteString(styles.Muted.Render(fmt.Sprintf("%d itens", list.Len())))
	sb.WriteString("\n")
	return sb.String()
}

func renderTable(headers []string, rows [][]string, styles Styles) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// padding is counted inside the style width
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	sep := styles.Muted.Render("|")
	for i, h := range headers {
		sb.WriteString(styles.Header.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			sb.WriteString(styles.Cell.Width(widths[i]).Render(cell))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
