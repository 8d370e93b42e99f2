package gallery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	kindShotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	kindGifStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	kindPDFStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// Model is the root Bubble Tea model for the gallery browser.
type Model struct {
	store   *Store
	items   []Artifact
	cursor  int
	folder  string // active folder filter, "" shows everything
	vp      viewport.Model
	caption textinput.Model
	editing bool
	width   int
	height  int
	ready   bool
	status  string
}

// NewModel creates a browser over the given store.
func NewModel(s *Store) Model {
	ti := textinput.New()
	ti.Placeholder = "caption"
	ti.CharLimit = 120
	m := Model{store: s, caption: ti}
	m.reload()
	return m
}

func (m *Model) reload() {
	m.items = nil
	for _, a := range m.store.Items() {
		if m.folder == "" || a.Folder == m.folder {
			m.items = append(m.items, a)
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter":
				if len(m.items) > 0 {
					a := m.items[m.cursor]
					if err := m.store.SetCaption(a.ID, m.caption.Value()); err != nil {
						m.status = err.Error()
					}
					m.reload()
				}
				m.editing = false
				m.rebuild()
				return m, nil
			case "esc":
				m.editing = false
				return m, nil
			}
			var cmd tea.Cmd
			m.caption, cmd = m.caption.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.rebuild()
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.rebuild()
			}
			return m, nil
		case "c":
			if len(m.items) > 0 {
				m.editing = true
				m.caption.SetValue(m.items[m.cursor].Caption)
				m.caption.Focus()
				return m, textinput.Blink
			}
			return m, nil
		case "f":
			m.cycleFolder()
			m.rebuild()
			return m, nil
		case "x":
			if len(m.items) > 0 {
				a := m.items[m.cursor]
				if err := m.store.Remove(a.ID); err != nil {
					m.status = err.Error()
				} else {
					m.status = "deleted " + a.FileName
				}
				m.reload()
				m.rebuild()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// title(1) + statusBar(1) = 2 fixed rows
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.vp = viewport.New(m.width, vpHeight)
		m.rebuild()
		return m, nil
	}
	return m, nil
}

// cycleFolder steps the filter through "" and each folder in use.
func (m *Model) cycleFolder() {
	folders := m.store.Folders()
	if len(folders) == 0 {
		return
	}
	next := ""
	if m.folder == "" {
		next = folders[0]
	} else {
		for i, f := range folders {
			if f == m.folder && i+1 < len(folders) {
				next = folders[i+1]
			}
		}
	}
	m.folder = next
	m.cursor = 0
	m.reload()
}

func (m *Model) rebuild() {
	m.vp.SetContent(m.renderList())
}

func (m *Model) renderList() string {
	var sb strings.Builder
	if len(m.items) == 0 {
		sb.WriteString(dimStyle.Render("\n  (no captures yet)") + "\n")
		return sb.String()
	}
	for i, a := range m.items {
		ts := timeStyle.Render(a.CreatedAt.Format("2006-01-02 15:04"))
		var badge string
		switch a.Kind {
		case KindGIF:
			badge = kindGifStyle.Render("[GIF] ")
		case KindPDF:
			badge = kindPDFStyle.Render("[PDF] ")
		default:
			badge = kindShotStyle.Render("[SHOT]")
		}
		line := fmt.Sprintf("  %s  %s  %s", ts, badge, a.FileName)
		if a.Caption != "" {
			line += dimStyle.Render("  — " + a.Caption)
		}
		if a.Folder != "" && m.folder == "" {
			line += dimStyle.Render("  (" + a.Folder + ")")
		}
		if i == m.cursor {
			line = selectedRowStyle.Width(m.width - 2).Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	label := "all captures"
	if m.folder != "" {
		label = "folder: " + m.folder
	}
	title := titleStyle.Width(m.width).Render(fmt.Sprintf("  lovshot gallery  %s (%d)", label, len(m.items)))

	content := m.vp.View()

	hint := "  ↑/↓ select  c caption  f folder  x delete  q quit"
	if m.editing {
		hint = "  enter save  esc cancel"
		content = m.vp.View() + "\n  " + m.caption.View()
	}
	if m.status != "" {
		hint += "  │ " + m.status
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, title, content, statusBar)
}

// Run opens the gallery browser on the given store.
func Run(s *Store) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
