package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/pixelfeed/internal/core/styles"
	"github.com/colonyops/pixelfeed/internal/core/toast"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders toast notifications and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack with the newest toast on top.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(t toast.Toast) string {
	icon := styles.IconNotifyInfo
	style := styles.ToastDefaultStyle
	if t.Variant == toast.VariantDestructive {
		icon = styles.IconNotifyError
		style = styles.ToastDestructiveStyle
	}
	if !t.Open {
		style = styles.ToastClosedStyle
	}

	var lines []string
	if t.Title != "" {
		lines = append(lines, icon+" "+styles.ToastTitleStyle.Render(t.Title))
		if t.Description != "" {
			lines = append(lines, t.Description)
		}
	} else {
		lines = append(lines, icon+" "+t.Description)
	}

	return style.Width(toastWidth).Render(strings.Join(lines, "\n"))
}

// Overlay composites the toast stack over the bottom-right corner of
// background. Covered rows are replaced by the toast rows.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	toastLines := strings.Split(toastContent, "\n")
	start := max(len(bgLines)-len(toastLines), 0)
	for i, line := range toastLines {
		row := start + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = lipgloss.PlaceHorizontal(width, lipgloss.Right, line+" ")
	}

	return strings.Join(bgLines, "\n")
}
