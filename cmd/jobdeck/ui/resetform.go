package ui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jobdeck/internal/authapi"
	"jobdeck/internal/logging"
)

// emailPattern accepts anything shaped like localpart@domain.tld. Real
// deliverability is the reset service's problem; this only catches
// obvious typos before a request goes out.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// User-facing form messages.
const (
	msgEmailRequired = "Email is required"
	msgEmailInvalid  = "Please enter a valid email address"
	msgRateLimited   = "Too many reset requests. Wait a minute before trying again."
	msgNoAccount     = "No account exists for that email address."
	msgResetFailed   = "Something went wrong. Please try again."
)

// SubmissionStatus tracks the lifecycle of one reset request.
type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusInProgress
	StatusSucceeded
	StatusFailed
)

// String returns the status name for logs.
func (s SubmissionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in-progress"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CanSubmit reports whether a new submission may start. Only an
// in-flight request blocks submitting; resolved states do not.
func (s SubmissionStatus) CanSubmit() bool {
	return s != StatusInProgress
}

// BannerKind selects the banner's visual treatment.
type BannerKind int

const (
	BannerSuccess BannerKind = iota
	BannerError
	BannerInfo
)

// Banner is a persistent status notice. It is never auto-dismissed;
// only the next valid submission replaces it.
type Banner struct {
	Kind    BannerKind
	Message string
}

type (
	// ResetSucceededMsg reports that the reset request was accepted.
	ResetSucceededMsg struct {
		Email string
	}

	// ResetFailedMsg reports that the reset request failed.
	ResetFailedMsg struct {
		Err error
	}
)

// ResetFormModel is the password reset request form. All state
// transitions happen in Update so the form can be driven and asserted
// without rendering.
type ResetFormModel struct {
	input    textinput.Model
	spinner  spinner.Model
	styles   Styles
	resetter authapi.PasswordResetter
	baseURL  string

	status   SubmissionStatus
	fieldErr string
	banner   *Banner

	width int
}

// NewResetForm creates the reset request form.
func NewResetForm(resetter authapi.PasswordResetter, baseURL string, styles Styles) ResetFormModel {
	ti := textinput.New()
	ti.Placeholder = "you@example.com"
	ti.CharLimit = 254
	ti.Width = 40
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Spinner),
	)

	return ResetFormModel{
		input:    ti,
		spinner:  sp,
		styles:   styles,
		resetter: resetter,
		baseURL:  baseURL,
		status:   StatusIdle,
	}
}

// Init starts the cursor blink and spinner tick.
func (m ResetFormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// SetSize adjusts the form to the available width.
func (m *ResetFormModel) SetSize(width, height int) {
	m.width = width
	inputWidth := width - 8
	if inputWidth > 60 {
		inputWidth = 60
	}
	if inputWidth > 0 {
		m.input.Width = inputWidth
	}
}

// Status returns the current submission status.
func (m ResetFormModel) Status() SubmissionStatus {
	return m.status
}

// Banner returns the active banner, or nil.
func (m ResetFormModel) Banner() *Banner {
	return m.banner
}

// FieldError returns the active field validation error.
func (m ResetFormModel) FieldError() string {
	return m.fieldErr
}

// Email returns the current input value.
func (m ResetFormModel) Email() string {
	return m.input.Value()
}

// ShowInfo displays an informational banner, e.g. a contextual hint
// from the shell. Like every banner it persists until a valid submit.
func (m *ResetFormModel) ShowInfo(message string) {
	m.banner = &Banner{Kind: BannerInfo, Message: message}
}

// Update handles form messages.
func (m ResetFormModel) Update(msg tea.Msg) (ResetFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		// Any other key edits the input, so stale validation feedback
		// goes away immediately. The banner stays: it reports the
		// outcome of a request, not the state of the field.
		m.fieldErr = ""
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.status == StatusInProgress {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ResetSucceededMsg:
		m.status = StatusSucceeded
		m.banner = &Banner{
			Kind:    BannerSuccess,
			Message: fmt.Sprintf("Reset link sent to %s. Check your inbox.", msg.Email),
		}
		m.input.SetValue("")
		logging.TUI("Reset request succeeded for %s", msg.Email)
		return m, nil

	case ResetFailedMsg:
		m.status = StatusFailed
		m.banner = &Banner{
			Kind:    BannerError,
			Message: ClassifyResetError(msg.Err),
		}
		logging.TUIDebug("Reset request failed: %v", msg.Err)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit validates the input and starts the reset request. A request
// already in flight makes this a no-op before any validation runs.
func (m ResetFormModel) submit() (ResetFormModel, tea.Cmd) {
	if !m.status.CanSubmit() {
		return m, nil
	}

	email, err := ValidateEmail(m.input.Value())
	if err != nil {
		m.fieldErr = err.Error()
		return m, nil
	}

	// A valid submission wipes the previous attempt's feedback.
	m.fieldErr = ""
	m.banner = nil
	m.status = StatusInProgress

	return m, tea.Batch(m.spinner.Tick, requestResetCmd(m.resetter, email, m.baseURL))
}

// ValidateEmail trims raw and checks that it is a plausible address.
// It returns the trimmed email, or an error whose text can be shown
// to the user as-is.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", errors.New(msgEmailRequired)
	}
	if !emailPattern.MatchString(email) {
		return "", errors.New(msgEmailInvalid)
	}
	return email, nil
}

// requestResetCmd calls the auth service off the UI loop.
func requestResetCmd(resetter authapi.PasswordResetter, email, baseURL string) tea.Cmd {
	return func() tea.Msg {
		redirectURL := authapi.ResetRedirectURL(baseURL)
		if err := resetter.RequestReset(context.Background(), email, redirectURL); err != nil {
			return ResetFailedMsg{Err: err}
		}
		return ResetSucceededMsg{Email: email}
	}
}

// ClassifyResetError maps a reset service failure to the message shown
// to the user. Matching is case-insensitive on the error text.
func ClassifyResetError(err error) string {
	if err == nil {
		return msgResetFailed
	}

	raw := strings.TrimSpace(err.Error())
	lower := strings.ToLower(raw)

	switch {
	case strings.Contains(lower, "rate limit"):
		return msgRateLimited
	case strings.Contains(lower, "not found"):
		return msgNoAccount
	case raw != "":
		return raw
	default:
		return msgResetFailed
	}
}

// View renders the form.
func (m ResetFormModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Reset your password"))
	b.WriteString("\n")
	b.WriteString(m.styles.Body.Render("Enter the email for your account and we'll send a reset link."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.fieldErr != "" {
		b.WriteString(m.styles.Error.Render(m.fieldErr))
		b.WriteString("\n")
	}

	if m.banner != nil {
		b.WriteString("\n")
		b.WriteString(m.renderBanner(*m.banner))
		b.WriteString("\n")
	}

	if m.status == StatusInProgress {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Muted.Render(" Sending reset link..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter send · esc back"))

	return b.String()
}

func (m ResetFormModel) renderBanner(banner Banner) string {
	switch banner.Kind {
	case BannerSuccess:
		return m.styles.Success.Render("✓ " + banner.Message)
	case BannerError:
		return m.styles.Error.Render("✗ " + banner.Message)
	default:
		return m.styles.Info.Render("ℹ " + banner.Message)
	}
}
