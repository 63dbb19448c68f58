package tui

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/groundwork/internal/templates"
	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// Field indexes of the wizard form, in display order.
const (
	fieldHostAlias = iota
	fieldHostName
	fieldUser
	fieldPort
	fieldForwardAgent
	fieldNodeChannel
	fieldBanner
	fieldGitName
	fieldGitEmail
	fieldCount
)

var channelPattern = regexp.MustCompile(`^([0-9]{1,3}|lts|current)$`)

// fieldSpec describes one wizard field: its label, the validator run
// when the user advances past it, and the char limit for its input.
type fieldSpec struct {
	label     string
	charLimit int
	validate  func(string) error
}

var wizardFields = [fieldCount]fieldSpec{
	fieldHostAlias: {
		label:     "Host alias (ssh shortcut name, blank for none)",
		charLimit: 64,
		validate:  validation.ValidateHostname,
	},
	fieldHostName: {
		label:     "Host address",
		charLimit: 253,
		validate:  validation.ValidateHostname,
	},
	fieldUser: {
		label:     "User to provision",
		charLimit: 32,
		validate:  validation.ValidateUsername,
	},
	fieldPort: {
		label:     "SSH port",
		charLimit: 5,
		validate:  validatePort,
	},
	fieldForwardAgent: {
		label:     "Forward ssh agent? (y/N)",
		charLimit: 3,
		validate:  validateYesNo,
	},
	fieldNodeChannel: {
		label:     "Node.js channel (lts, current, or a major version)",
		charLimit: 7,
		validate:  validateChannel,
	},
	fieldBanner: {
		label:     "Login banner command",
		charLimit: 64,
		validate:  validation.ValidateCommandName,
	},
	fieldGitName: {
		label:     "Git user name (blank to skip git setup)",
		charLimit: 128,
		validate:  validation.ValidateGitConfigValue,
	},
	fieldGitEmail: {
		label:     "Git email",
		charLimit: 128,
		validate:  validation.ValidateGitConfigValue,
	},
}

func validatePort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	return nil
}

func validateYesNo(value string) error {
	switch strings.ToLower(value) {
	case "y", "yes", "n", "no":
		return nil
	}
	return fmt.Errorf("answer y or n")
}

func validateChannel(value string) error {
	if !channelPattern.MatchString(value) {
		return fmt.Errorf("channel must be a major version number, %q, or %q", "lts", "current")
	}
	return nil
}

// initWizardModel is the manifest wizard: one text input per field,
// Enter advances, a blank answer accepts the placeholder default.
type initWizardModel struct {
	defaults  templates.ManifestData
	styles    Styles
	inputs    [fieldCount]textinput.Model
	focus     int
	errMsg    string
	width     int
	done      bool
	cancelled bool
}

func newInitWizardModel(defaults templates.ManifestData) initWizardModel {
	m := initWizardModel{
		defaults: defaults,
		styles:   DefaultStyles(),
		width:    80,
	}

	placeholders := [fieldCount]string{
		fieldHostAlias:    defaults.HostAlias,
		fieldHostName:     defaults.HostName,
		fieldUser:         defaults.User,
		fieldPort:         strconv.Itoa(defaults.Port),
		fieldForwardAgent: "n",
		fieldNodeChannel:  defaults.NodeChannel,
		fieldBanner:       defaults.Banner,
		fieldGitName:      defaults.GitName,
		fieldGitEmail:     defaults.GitEmail,
	}
	if defaults.ForwardAgent {
		placeholders[fieldForwardAgent] = "y"
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = wizardFields[i].charLimit
		m.inputs[i] = ti
	}
	m.inputs[fieldHostAlias].Focus()

	return m
}

func (m initWizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m initWizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.styles = m.styles.WithWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m initWizardModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // Only navigation keys are handled here.
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		if err := m.validateFocused(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		if msg.Type == tea.KeyEnter && m.focus == fieldCount-1 {
			m.done = true
			return m, tea.Quit
		}
		return m.moveFocus(1), nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.errMsg = ""
		return m.moveFocus(-1), nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// validateFocused checks the focused field. Blank answers accept the
// placeholder default and are always valid.
func (m initWizardModel) validateFocused() error {
	value := strings.TrimSpace(m.inputs[m.focus].Value())
	if value == "" {
		return nil
	}
	return wizardFields[m.focus].validate(value)
}

func (m initWizardModel) moveFocus(delta int) initWizardModel {
	next := m.focus + delta
	if next < 0 || next >= fieldCount {
		return m
	}
	m.inputs[m.focus].Blur()
	m.focus = next
	m.inputs[m.focus].Focus()
	return m
}

// value returns the trimmed answer for a field, empty when the user
// accepted the default.
func (m initWizardModel) value(field int) string {
	return strings.TrimSpace(m.inputs[field].Value())
}

// data folds the answers over the defaults the wizard started from.
func (m initWizardModel) data() templates.ManifestData {
	d := m.defaults

	if v := m.value(fieldHostAlias); v != "" {
		d.HostAlias = v
	}
	if v := m.value(fieldHostName); v != "" {
		d.HostName = v
	}
	if v := m.value(fieldUser); v != "" {
		d.User = v
	}
	if v := m.value(fieldPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			d.Port = port
		}
	}
	if v := m.value(fieldForwardAgent); v != "" {
		answer := strings.ToLower(v)
		d.ForwardAgent = answer == "y" || answer == "yes"
	}
	if v := m.value(fieldNodeChannel); v != "" {
		d.NodeChannel = v
	}
	if v := m.value(fieldBanner); v != "" {
		d.Banner = v
	}
	if v := m.value(fieldGitName); v != "" {
		d.GitName = v
	}
	if v := m.value(fieldGitEmail); v != "" {
		d.GitEmail = v
	}

	return d
}

func (m initWizardModel) View() string {
	if m.done {
		return m.viewComplete()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Groundwork Init"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Answer each question or press Enter to accept the default."))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := m.styles.Label.Render(wizardFields[i].label)
		if i == m.focus {
			label = m.styles.LabelActive.Render(wizardFields[i].label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter: next field  •  shift+tab: back  •  esc: cancel"))

	return m.styles.App.Render(b.String())
}

func (m initWizardModel) viewComplete() string {
	title := m.styles.Title.Render("Manifest Ready")
	body := m.styles.Success.Render("Writing groundwork.yaml with your answers.\n\n") +
		m.styles.Help.Render("  groundwork plan   - preview the provisioning steps\n") +
		m.styles.Help.Render("  groundwork up     - converge the server\n")
	return m.styles.App.Render(title + "\n\n" + body)
}
