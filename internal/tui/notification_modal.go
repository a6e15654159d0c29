package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/pixelfeed/internal/core/notify"
	"github.com/colonyops/pixelfeed/internal/core/styles"
	"github.com/colonyops/pixelfeed/internal/core/toast"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 30
	notifyModalMargin    = 4
	notifyModalChrome    = 6 // title + divider + help + spacing
)

// NotificationModal displays a scrollable history of notifications.
type NotificationModal struct {
	bus      *notify.Bus
	viewport viewport.Model
	width    int
	height   int
}

// NewNotificationModal creates a modal showing the bus history.
func NewNotificationModal(bus *notify.Bus, width, height int) *NotificationModal {
	modalWidth := calcNotificationModalWidth(width)
	modalHeight := min(height-notifyModalMargin, notifyModalMaxHeight)
	contentHeight := max(modalHeight-notifyModalChrome, 1)

	m := &NotificationModal{
		bus:      bus,
		viewport: viewport.New(modalWidth-4, contentHeight), // account for modal padding
		width:    width,
		height:   height,
	}

	m.refreshContent()
	return m
}

func (m *NotificationModal) refreshContent() {
	history, err := m.bus.History(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to load notification history")
		m.viewport.SetContent(styles.TextErrorStyle.Render(fmt.Sprintf("failed to load notifications: %v", err)))
		return
	}

	if len(history) == 0 {
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	var b strings.Builder
	for i, n := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatNotification(n))
	}

	m.viewport.SetContent(b.String())
}

func formatNotification(n notify.Notification) string {
	ts := styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05"))

	icon := styles.IconNotifyInfo
	msgStyle := styles.TextPrimaryStyle
	if n.Variant == toast.VariantDestructive {
		icon = styles.IconNotifyError
		msgStyle = styles.TextErrorStyle
	}

	text := n.Description
	if n.Title != "" {
		text = n.Title + ": " + n.Description
	}

	return fmt.Sprintf("%s %s %s", ts, icon, msgStyle.Render(text))
}

// ScrollUp scrolls the viewport up.
func (m *NotificationModal) ScrollUp() {
	m.viewport.LineUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *NotificationModal) ScrollDown() {
	m.viewport.LineDown(1)
}

// Clear deletes all notifications and refreshes the view.
func (m *NotificationModal) Clear() error {
	if err := m.bus.Clear(context.Background()); err != nil {
		return err
	}
	m.refreshContent()
	return nil
}

// View renders the modal box.
func (m *NotificationModal) View() string {
	modalWidth := calcNotificationModalWidth(m.width)

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(modalWidth-6, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(styles.IconBell+" Notifications"+scrollInfo),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [D] clear all  [esc] close"),
	)

	return styles.ModalStyle.
		Width(modalWidth).
		Render(content)
}

// Overlay renders the modal centered in a width x height area.
func (m *NotificationModal) Overlay(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.View())
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}
