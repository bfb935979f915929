package daemon

import (
	"github.com/1broseidon/tilesync/internal/platform"
)

// WatchPlatform turns window-system notifications into reconciler
// commands. Handlers run on the backend's event goroutine and only post.
func WatchPlatform(src platform.EventSource, r *Reconciler) error {
	return src.Subscribe(func(ev platform.Event) {
		var cmd Command
		switch ev.Kind {
		case platform.EventForegroundChanged:
			cmd = ExternalFocus()
		case platform.EventWindowsChanged:
			cmd = ManageWindows()
		case platform.EventWindowShown:
			cmd = MarkShown(ev.Window)
		case platform.EventWindowHidden:
			cmd = MarkHidden(ev.Window)
		default:
			return
		}
		if !r.Post(cmd) {
			r.logger.Debug("dropped platform event after shutdown", "event", ev.Kind)
		}
	})
}
