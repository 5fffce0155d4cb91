// ABOUTME: Interactive TUI wizard for configuring newsdesk endpoints.
// ABOUTME: 3-step bubbletea model collecting search provider, provider source and explorer URL.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/newsdesk/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepProvider Step = iota
	StepSource
	StepExplorer
	StepDone
)

// Settings are the values the wizard collects.
type Settings struct {
	Provider    string
	NewsAPIKey  string
	RSSURL      string
	ExplorerURL string
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	inputs   [3]textinput.Model
	apiKey   string
	rssURL   string
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(current Settings) SetupModel {
	providerInput := textinput.New()
	providerInput.Placeholder = config.DefaultProvider
	providerInput.Focus()
	providerInput.Width = 50
	if current.Provider != "" {
		providerInput.SetValue(current.Provider)
	}

	sourceInput := textinput.New()
	sourceInput.Width = 50

	explorerInput := textinput.New()
	explorerInput.Placeholder = config.DefaultExplorerURL
	explorerInput.Width = 50
	if current.ExplorerURL != "" {
		explorerInput.SetValue(current.ExplorerURL)
	}

	return SetupModel{
		step:   StepProvider,
		inputs: [3]textinput.Model{providerInput, sourceInput, explorerInput},
		apiKey: current.NewsAPIKey,
		rssURL: current.RSSURL,
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.step < StepDone {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.step < StepDone {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)

	switch m.step {
	case StepProvider:
		val := strings.ToLower(strings.TrimSpace(m.inputs[0].Value()))
		if val == "" {
			val = config.DefaultProvider
		}
		if val != "newsapi" && val != "rss" {
			return m, nil
		}
		m.inputs[0].SetValue(val)
		m.prepareSource(val)

	case StepSource:
		val := strings.TrimSpace(m.inputs[1].Value())
		if m.provider() == "newsapi" && val == "" {
			return m, nil
		}
		if m.provider() == "rss" && val == "" {
			val = config.DefaultRSSSearchURL
		}
		m.inputs[1].SetValue(val)

	case StepExplorer:
		if strings.TrimSpace(m.inputs[2].Value()) == "" {
			m.inputs[2].SetValue(config.DefaultExplorerURL)
		}
	}

	m.inputs[idx].Blur()
	m.step++
	if m.step == StepDone {
		return m, tea.Quit
	}
	m.inputs[m.step].Focus()
	return m, textinput.Blink
}

// prepareSource configures the second input for the chosen provider.
func (m *SetupModel) prepareSource(provider string) {
	in := &m.inputs[1]
	in.SetValue("")
	if provider == "newsapi" {
		in.Placeholder = "your NewsAPI key"
		in.EchoMode = textinput.EchoPassword
		in.SetValue(m.apiKey)
		return
	}
	in.Placeholder = config.DefaultRSSSearchURL
	in.EchoMode = textinput.EchoNormal
	in.SetValue(m.rssURL)
}

func (m SetupModel) provider() string {
	return m.inputs[0].Value()
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   NEWSDESK"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure where newsdesk searches and saves articles.\n\n")

	switch m.step {
	case StepProvider:
		b.WriteString(stepStyle.Render("Step 1 of 3: Search Provider"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(newsapi or rss, press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepSource:
		b.WriteString(fmt.Sprintf("  Provider: %s\n\n", m.provider()))
		if m.provider() == "newsapi" {
			b.WriteString(stepStyle.Render("Step 2 of 3: NewsAPI Key"))
			b.WriteString("\n")
			b.WriteString(promptStyle.Render("(required, get one at newsapi.org)"))
		} else {
			b.WriteString(stepStyle.Render("Step 2 of 3: RSS Search URL"))
			b.WriteString("\n")
			b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", config.DefaultRSSSearchURL)))
		}
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepExplorer:
		b.WriteString(fmt.Sprintf("  Provider: %s\n\n", m.provider()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Explorer Server"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", config.DefaultExplorerURL)))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Provider:  %s\n", m.provider()))
		b.WriteString(fmt.Sprintf("  Explorer:  %s\n", m.inputs[2].Value()))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values. The source input fills the field of
// the chosen provider; the other provider keeps its previous value.
func (m SetupModel) Result() Settings {
	s := Settings{
		Provider:    m.provider(),
		NewsAPIKey:  m.apiKey,
		RSSURL:      m.rssURL,
		ExplorerURL: m.inputs[2].Value(),
	}
	if s.Provider == "newsapi" {
		s.NewsAPIKey = m.inputs[1].Value()
	} else {
		s.RSSURL = m.inputs[1].Value()
	}
	return s
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
