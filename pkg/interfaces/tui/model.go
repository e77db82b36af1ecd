// Package tui is a terminal rendition of the shopping page: one input per
// stock item, with keys to generate and export the list.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/application/services"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2F6F4F"))
	labelStyle  = lipgloss.NewStyle().Width(24)
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
)

// Model is the bubbletea model of a stock-entry session.
type Model struct {
	ctx        context.Context
	service    *services.ShoppingService
	sess       *session.Session
	exportPath string

	rows   []dto.StockRow
	inputs []textinput.Model
	focus  int

	result *dto.ShoppingResult
	status string
	err    error
	styles output.Styles
}

// NewModel loads the stock rows for sess and builds one input per row.
// exportPath is where ctrl+e writes the CSV; empty means the default file name.
func NewModel(ctx context.Context, service *services.ShoppingService, sess *session.Session, exportPath string) (Model, error) {
	rows, err := service.StockRows(ctx, sess)
	if err != nil {
		return Model{}, err
	}
	if exportPath == "" {
		exportPath = output.DefaultCSVFile
	}

	m := Model{
		ctx:        ctx,
		service:    service,
		sess:       sess,
		exportPath: exportPath,
		rows:       rows,
		styles:     output.DefaultStyles(),
	}
	for _, row := range rows {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 10
		ti.SetValue(output.FormatQuantity(row.Quantity))
		m.inputs = append(m.inputs, ti)
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m, nil
}

// Result returns the last generated list, if any.
func (m Model) Result() *dto.ShoppingResult {
	return m.result
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "esc" || key.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if cmd, handled := m.handleKey(key.String()); handled {
			return m, cmd
		}
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// handleKey runs the form shortcuts; other keys go to the focused input.
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case "tab", "down", "enter":
		return m.move(1), true
	case "shift+tab", "up":
		return m.move(-1), true
	case "ctrl+g":
		return m.generate(), true
	case "ctrl+e":
		return m.export(), true
	}
	return nil, false
}

func (m *Model) move(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	return m.focusOn((m.focus + delta + len(m.inputs)) % len(m.inputs))
}

// focusOn moves keyboard focus to input i.
func (m *Model) focusOn(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// generate copies the inputs into the session stock and computes the list.
// An invalid quantity moves focus to its row.
func (m *Model) generate() tea.Cmd {
	m.status, m.err = "", nil
	for i, row := range m.rows {
		quantity, err := entities.ParseQuantity(m.inputs[i].Value())
		if err == nil {
			err = m.service.SetStock(m.sess, row.Item, quantity)
		}
		if err != nil {
			m.err = fmt.Errorf("%s: %w", row.Item, err)
			return m.focusOn(i)
		}
	}

	result, err := m.service.Generate(m.ctx, m.sess)
	if err != nil {
		m.err = err
		return nil
	}
	m.result = result
	m.status = fmt.Sprintf("Lista gerada com %d itens.", result.List.Len())
	return nil
}

func (m *Model) export() tea.Cmd {
	if m.result == nil {
		if cmd := m.generate(); m.err != nil {
			return cmd
		}
	}
	err := output.Generate(m.result, output.Config{Format: "csv", Path: m.exportPath}, io.Discard)
	if err != nil {
		m.err = err
		return nil
	}
	m.status = "💾 Lista salva em: " + m.exportPath
	return nil
}

// View renders the stock form above the last generated list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🛒 Estoque atual"))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		label := fmt.Sprintf("%s (%s)", row.Item, row.Unit)
		if i == m.focus {
			label = focusStyle.Render("› " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString("  Nenhum item para controlar.\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(output.RenderText(m.result.List, m.styles))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("tab/↑↓ navegar · ctrl+g gerar · ctrl+e exportar CSV · esc sair") + "\n")
	return b.String()
}

// Run starts the program on the terminal and returns the final model.
func Run(ctx context.Context, m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
