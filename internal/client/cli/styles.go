package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/snipai/snipai/internal/client/editor"
)

var (
	savingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	toastSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	toastAIStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func renderStatus(s editor.Status) string {
	switch s {
	case editor.StatusSaving:
		return savingStyle.Render(s.String())
	case editor.StatusSaved:
		return savedStyle.Render(s.String())
	case editor.StatusError:
		return errorStyle.Render(s.String())
	default:
		return ""
	}
}

func renderToast(msg string, kind editor.ToastKind) string {
	switch kind {
	case editor.ToastError:
		return toastErrorStyle.Render("✗ " + msg)
	case editor.ToastAI:
		return toastAIStyle.Render("✦ " + msg)
	default:
		return toastSuccessStyle.Render("✓ " + msg)
	}
}
