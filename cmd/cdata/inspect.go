package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/membank/cdata"
	"github.com/membank/cdata/cdef"
	"github.com/membank/cdata/codec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <def.toml>",
	Short: "Browse declared types interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("inspect needs a terminal; use 'cdata layout' for plain output")
		}
		reg, err := cdef.Load(args[0])
		if err != nil {
			return err
		}
		if len(reg.Types()) == 0 {
			return fmt.Errorf("%s declares no types", args[0])
		}

		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}

		m := newInspectModel(args[0], reg, width, height)
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

type inspectModel struct {
	filename string
	types    []cdata.Type
	selected int
	detail   viewport.Model
	width    int
	height   int
}

func newInspectModel(filename string, reg *cdef.Registry, width, height int) *inspectModel {
	m := &inspectModel{
		filename: filename,
		types:    reg.Types(),
		width:    width,
		height:   height,
	}
	m.detail = viewport.New(m.detailWidth(), m.bodyHeight())
	m.detail.SetContent(m.renderDetail())
	return m
}

func (m *inspectModel) listWidth() int   { return m.width / 3 }
func (m *inspectModel) detailWidth() int { return m.width - m.listWidth() - 1 }
func (m *inspectModel) bodyHeight() int  { return m.height - 3 }

func (m *inspectModel) Init() tea.Cmd { return nil }

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.detail.Width = m.detailWidth()
		m.detail.Height = m.bodyHeight()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.detail.SetContent(m.renderDetail())
				m.detail.GotoTop()
			}
		case "down", "j":
			if m.selected < len(m.types)-1 {
				m.selected++
				m.detail.SetContent(m.renderDetail())
				m.detail.GotoTop()
			}
		case "pgup":
			m.detail.HalfViewUp()
		case "pgdown":
			m.detail.HalfViewDown()
		}
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *inspectModel) View() string {
	title := titleStyle.Render("cdata inspect: " + m.filename)

	var list strings.Builder
	for i, t := range m.types {
		line := fmt.Sprintf("%-10s %s", t.Kind(), t.Name())
		if i == m.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = typeStyle.Render("  " + line)
		}
		list.WriteString(line)
		list.WriteByte('\n')
	}

	left := lipgloss.NewStyle().
		Width(m.listWidth()).
		Height(m.bodyHeight()).
		Render(list.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.detail.View())

	help := helpStyle.Render("up/down select · pgup/pgdn scroll · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

// renderDetail shows the selected type's layout and a hex preview of a
// packed zero-valued instance.
func (m *inspectModel) renderDetail() string {
	t := m.types[m.selected]

	var b strings.Builder
	printLayout(&b, t)

	b.WriteString("\nzero-valued instance:\n")
	data, err := codec.Pack(t.New())
	if err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
		return b.String()
	}
	b.WriteString(hexDump(data))
	return b.String()
}

// hexDump renders bytes in the classic 16-per-line offset format.
func hexDump(data []byte) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&b, "  %04x ", off)
		for i := off; i < end; i++ {
			fmt.Fprintf(&b, " %02x", data[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
