// Package tui implements the Bubble Tea gallery browser for pixelfeed.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/core/notify"
)

// Gallery is the subset of gallery.Reporter used by the browser.
type Gallery interface {
	List(ctx context.Context, userID string) ([]gallery.Post, error)
	Delete(ctx context.Context, id int64) (gallery.Post, error)
}

// Options configures the TUI model.
type Options struct {
	Gallery  Gallery
	Bus      *notify.Bus
	User     string        // only show this user's posts; empty shows all
	ToastTTL time.Duration // how long toasts stay open
}

type viewState int

const (
	stateNormal viewState = iota
	stateNotifications
)

// postsLoadedMsg is sent when posts are loaded.
type postsLoadedMsg struct {
	posts []gallery.Post
	err   error
}

// postDeletedMsg is sent when a delete completes.
type postDeletedMsg struct {
	id  int64
	err error
}

// Model is the main Bubble Tea model.
type Model struct {
	gallery Gallery
	bus     *notify.Bus
	user    string

	keys keyMap
	help help.Model

	toastController   *ToastController
	toastView         *ToastView
	notificationModal *NotificationModal

	state    viewState
	posts    []gallery.Post
	cursor   int
	loading  bool
	width    int
	height   int
	quitting bool
}

// New creates a new TUI model subscribed to the bus toast store.
func New(opts Options) Model {
	ctrl := NewToastController(opts.Bus.Toasts(), opts.ToastTTL)

	return Model{
		gallery:         opts.Gallery,
		bus:             opts.Bus,
		user:            opts.User,
		keys:            defaultKeyMap(),
		help:            help.New(),
		toastController: ctrl,
		toastView:       NewToastView(ctrl),
		loading:         true,
	}
}

// Close releases the toast subscription.
func (m Model) Close() {
	m.toastController.Close()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPosts(), m.toastController.Listen())
}

func (m Model) loadPosts() tea.Cmd {
	return func() tea.Msg {
		posts, err := m.gallery.List(context.Background(), m.user)
		return postsLoadedMsg{posts: posts, err: err}
	}
}

func (m Model) deletePost(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.gallery.Delete(context.Background(), id)
		return postDeletedMsg{id: id, err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case postsLoadedMsg:
		return m.handlePostsLoaded(msg)
	case postDeletedMsg:
		return m.handlePostDeleted(msg)

	case toastsUpdatedMsg:
		return m.handleToastsUpdated(msg)
	case toastTickMsg:
		return m.handleToastTick(msg)

	case tea.KeyMsg:
		if m.state == stateNotifications {
			return m.handleNotificationModalKey(msg.String())
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadPosts()
	case key.Matches(msg, m.keys.Delete):
		post, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.deletePost(post.ID)
	case key.Matches(msg, m.keys.Notifications):
		m.state = stateNotifications
		m.notificationModal = NewNotificationModal(m.bus, m.width, m.height)
	case key.Matches(msg, m.keys.Dismiss):
		m.toastController.Dismiss()
	case key.Matches(msg, m.keys.DismissAll):
		m.toastController.DismissAll()
	}
	return m, nil
}

func (m Model) handleNotificationModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "q":
		m.state = stateNormal
		m.notificationModal = nil
	case "j", "down":
		m.notificationModal.ScrollDown()
	case "k", "up":
		m.notificationModal.ScrollUp()
	case "D":
		if err := m.notificationModal.Clear(); err != nil {
			m.bus.Errorf(context.Background(), "failed to clear notifications: %v", err)
			return m, nil
		}
		m.bus.Infof(context.Background(), "Notifications cleared")
	}
	return m, nil
}

func (m Model) handlePostsLoaded(msg postsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		// the reporter has already raised a toast
		return m, nil
	}

	m.posts = msg.posts
	m.cursor = min(m.cursor, max(len(m.posts)-1, 0))
	return m, nil
}

func (m Model) handlePostDeleted(msg postDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, nil
	}
	m.loading = true
	return m, m.loadPosts()
}

func (m Model) handleToastsUpdated(msg toastsUpdatedMsg) (tea.Model, tea.Cmd) {
	m.toastController.Apply(msg.toasts)
	return m, tea.Batch(m.toastController.Listen(), m.ensureToastTick())
}

func (m Model) handleToastTick(_ toastTickMsg) (tea.Model, tea.Cmd) {
	m.toastController.Tick(toastTickInterval)
	if m.toastController.Counting() {
		return m, scheduleToastTick()
	}
	m.toastController.SetTicking(false)
	return m, nil
}

// ensureToastTick starts the tick chain when an open toast needs counting
// down and no chain is running.
func (m Model) ensureToastTick() tea.Cmd {
	if !m.toastController.Counting() || m.toastController.Ticking() {
		return nil
	}
	m.toastController.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) selected() (gallery.Post, bool) {
	if m.cursor < 0 || m.cursor >= len(m.posts) {
		return gallery.Post{}, false
	}
	return m.posts[m.cursor], true
}
