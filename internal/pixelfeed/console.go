package pixelfeed

import (
	"fmt"
	"io"

	"github.com/colonyops/pixelfeed/internal/core/styles"
	"github.com/colonyops/pixelfeed/internal/core/toast"
)

// AttachConsole prints every toast that enters store to w, once, oldest
// first. The returned function detaches the console.
func AttachConsole(store *toast.Store, w io.Writer) (detach func()) {
	seen := make(map[string]bool)

	return store.Subscribe(func(toasts []toast.Toast) {
		present := make(map[string]bool, len(toasts))
		for i := len(toasts) - 1; i >= 0; i-- {
			t := toasts[i]
			present[t.ID] = true
			if seen[t.ID] || !t.Open {
				continue
			}
			seen[t.ID] = true
			_, _ = fmt.Fprintln(w, formatConsoleToast(t))
		}

		for id := range seen {
			if !present[id] {
				delete(seen, id)
			}
		}
	})
}

func formatConsoleToast(t toast.Toast) string {
	icon := styles.TextSuccessStyle.Render(styles.IconNotifyInfo)
	if t.Variant == toast.VariantDestructive {
		icon = styles.TextErrorStyle.Render(styles.IconNotifyError)
	}

	switch {
	case t.Title != "" && t.Description != "":
		return fmt.Sprintf("%s %s: %s", icon, t.Title, t.Description)
	case t.Title != "":
		return fmt.Sprintf("%s %s", icon, t.Title)
	default:
		return fmt.Sprintf("%s %s", icon, t.Description)
	}
}
