package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader watches the config file and delivers freshly parsed configs to
// a callback. Only the pieces the server applies live (rate limits,
// sanitizer toggle) take effect without a restart.
type Reloader struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(*Config)
}

// NewReloader creates a file watcher for the resolved config path.
// Returns an error if the file does not exist — hot reload without a file
// is meaningless.
func NewReloader(path string, onChange func(*Config)) (*Reloader, error) {
	path = ResolvePath(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}

	return &Reloader{watcher: watcher, path: path, onChange: onChange}, nil
}

// Run watches for writes and reloads the config. Blocks until ctx is
// cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after the last write before reloading, since
	// editors often produce bursts of events.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					cfg, err := Load(r.path)
					if err != nil {
						fmt.Fprintf(os.Stderr, "hot-reload failed: %v\n", err)
						return
					}
					fmt.Fprintf(os.Stderr, "hot-reload: config reloaded\n")
					r.onChange(cfg)
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "config watcher: %v\n", err)
		}
	}
}
