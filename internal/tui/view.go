package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/pixelfeed/internal/core/styles"
)

const promptWidth = 48

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	if m.state == stateNotifications && m.notificationModal != nil {
		return m.notificationModal.Overlay(w, h)
	}

	parts := []string{
		m.renderHeader(w),
		m.renderPosts(),
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	// Pin help to the last row.
	bodyHeight := max(h-1, 1)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	content := body + "\n" + m.help.View(m.keys)

	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}

func (m Model) renderHeader(width int) string {
	title := styles.IconImage + " pixelfeed"
	scope := "all users"
	if m.user != "" {
		scope = styles.IconUser + " " + m.user
	}

	left := styles.HeaderStyle.Render(title)
	right := styles.TextMutedStyle.Render(fmt.Sprintf("%s  %d posts", scope, len(m.posts)))
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderPosts() string {
	if m.loading && len(m.posts) == 0 {
		return styles.TextMutedStyle.Render("Loading posts...")
	}
	if len(m.posts) == 0 {
		return styles.TextMutedStyle.Render("No posts yet. Publish one with `pixelfeed publish`.")
	}

	lines := make([]string, 0, len(m.posts))
	for i, p := range m.posts {
		prompt := p.Prompt
		if len([]rune(prompt)) > promptWidth {
			prompt = string([]rune(prompt)[:promptWidth-1]) + "…"
		}

		line := fmt.Sprintf("#%-5d %-12s %-*s %s",
			p.ID,
			p.UserID,
			promptWidth,
			prompt,
			p.CreatedAt.Format("2006-01-02 15:04"),
		)

		if i == m.cursor {
			lines = append(lines, styles.ViewSelectedStyle.Render("> "+line))
		} else {
			lines = append(lines, styles.ViewNormalStyle.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}
