package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fahmaliyi/leek/store"
)

type model struct {
	session  *Session
	accounts []store.AccountHandle
	cursor   int
	state    string // "table", "show", "filter"
	filter   textinput.Model
	category string // active category filter, "" for all
	selected store.AccountHandle
	reveal   bool
	msg      string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	msgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("0"))
)

// RunTUI starts the full-screen account browser.
func RunTUI(s *Session) {
	ti := textinput.New()
	ti.Placeholder = "category"

	m := model{
		session:  s,
		accounts: s.Store.Accounts(),
		state:    "table",
		filter:   ti,
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Println("Error starting TUI:", err)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case "table":
		return updateTable(m, msg)
	case "show":
		return updateShow(m, msg)
	case "filter":
		return updateFilter(m, msg)
	default:
		return m, nil
	}
}

func (m model) View() string {
	switch m.state {
	case "table":
		return viewTable(m)
	case "show":
		return viewShow(m)
	case "filter":
		return viewFilter(m)
	default:
		return "Unknown state"
	}
}

// refresh reloads the account list honoring the active category filter.
func (m *model) refresh() {
	if m.category == "" {
		m.accounts = m.session.Store.Accounts()
	} else if c, ok := m.session.Store.GetCategory(m.category); ok {
		m.accounts, _ = m.session.Store.AccountsWithCategory(c)
	} else {
		m.accounts = nil
	}
	if m.cursor >= len(m.accounts) && m.cursor > 0 {
		m.cursor = len(m.accounts) - 1
	}
}

// --- Table ---

func updateTable(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.accounts)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.accounts) {
				m.selected = m.accounts[m.cursor]
				m.reveal = false
				m.state = "show"
			}
		case "a":
			AddAccountCLI(m.session)
			m.refresh()
		case "d":
			if m.cursor < len(m.accounts) {
				if err := m.session.Store.RemoveAccount(m.accounts[m.cursor]); err == nil {
					m.session.Save()
				}
				m.refresh()
			}
		case "c":
			if m.cursor < len(m.accounts) {
				if pw, err := m.accounts[m.cursor].Password(); err == nil {
					clipboard.WriteAll(pw)
					ttl := m.session.clipTTL
					m.msg = fmt.Sprintf("Password copied! (clears in %ds)", int(ttl.Seconds()))
					go func() {
						time.Sleep(ttl)
						clipboard.WriteAll("")
					}()
				}
			}
		case "/":
			m.filter.SetValue("")
			m.filter.Focus()
			m.state = "filter"
		case "esc":
			m.category = ""
			m.refresh()
		}
	}
	return m, nil
}

func viewTable(m model) string {
	title := "Accounts"
	if m.category != "" {
		title = fmt.Sprintf("Accounts [%s]", m.category)
	}
	s := titleStyle.Render(title) + "\n\n"
	for i, h := range m.accounts {
		name, _ := h.Name()
		login, _ := h.Login()
		cats, _ := h.Categories()
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			if n, err := c.Name(); err == nil {
				names = append(names, n)
			}
		}
		line := fmt.Sprintf("%-24s  %-20s  %s", name, login, strings.Join(names, ", "))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		s += line + "\n"
	}
	if m.msg != "" {
		s += "\n" + msgStyle.Render(m.msg)
	}
	s += "\nCommands: j/k=move, enter=show, a=add, d=delete, c=copy, /=filter, esc=clear filter, q=quit"
	return s
}

// --- Show ---

func updateShow(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.state = "table"
			m.reveal = false
		case "v":
			m.reveal = !m.reveal
		case "c":
			if pw, err := m.selected.Password(); err == nil {
				clipboard.WriteAll(pw)
				ttl := m.session.clipTTL
				m.msg = fmt.Sprintf("Password copied! (clears in %ds)", int(ttl.Seconds()))
				go func() {
					time.Sleep(ttl)
					clipboard.WriteAll("")
				}()
			}
		}
	}
	return m, nil
}

func viewShow(m model) string {
	name, err := m.selected.Name()
	if err != nil {
		return "Account no longer exists\n\nPress Esc to return"
	}
	login, _ := m.selected.Login()
	password := "********"
	if m.reveal {
		password, _ = m.selected.Password()
	}
	cats, _ := m.selected.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		if n, err := c.Name(); err == nil {
			names = append(names, n)
		}
	}
	s := fmt.Sprintf("Name: %s\nLogin: %s\nPassword: %s\nCategories: %s\n",
		name, login, password, strings.Join(names, ", "))
	if m.msg != "" {
		s += "\n" + msgStyle.Render(m.msg)
	}
	s += "\nPress 'v' to reveal, 'c' to copy, Esc to return"
	return s
}

// --- Filter ---

func updateFilter(m model, msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.category = strings.TrimSpace(m.filter.Value())
			m.filter.Blur()
			m.cursor = 0
			m.refresh()
			m.state = "table"
		case "esc":
			m.filter.Blur()
			m.state = "table"
		}
	}
	return m, cmd
}

func viewFilter(m model) string {
	s := titleStyle.Render("Filter by category") + "\n\n"
	s += m.filter.View() + "\n"
	s += "\nPress Enter to apply, Esc to cancel"
	return s
}
