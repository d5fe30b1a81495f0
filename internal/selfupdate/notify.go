// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// notifyTimeout bounds the background check so a slow GitHub API can never
// hold up process exit.
const notifyTimeout = 2 * time.Second

// Notifier runs the "newer suiup available" check as a fire-and-forget
// side effect around ordinary commands. It is idempotent within one
// process run, swallows every failure (including panics), and is never
// awaited by the primary command path — callers may optionally Wait with
// a short grace period before exiting so the warning can land.
type Notifier struct {
	updater *Updater
	out     io.Writer
	once    sync.Once
	done    chan struct{}
}

// NewNotifier creates a Notifier writing its one-line warning to out
// (conventionally stderr).
func NewNotifier(updater *Updater, out io.Writer) *Notifier {
	return &Notifier{
		updater: updater,
		out:     out,
		done:    make(chan struct{}),
	}
}

// Start launches the background check. Repeat calls are no-ops.
func (n *Notifier) Start() {
	n.once.Do(func() {
		go n.run()
	})
}

// Wait blocks until the check finished or the grace period elapsed,
// whichever comes first. It never surfaces an error.
func (n *Notifier) Wait(grace time.Duration) {
	select {
	case <-n.done:
	case <-time.After(grace):
	}
}

func (n *Notifier) run() {
	defer close(n.done)
	defer func() {
		// The notifier must never take down the host process.
		if r := recover(); r != nil {
			log.Debug("update check panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	check, err := n.updater.Check(ctx, "")
	if err != nil {
		// Fail silently: the update warning is best-effort and must not
		// escalate into the primary error path.
		log.Debug("update check failed", "error", err)
		return
	}

	if !check.UpgradeAvailable {
		return
	}

	fmt.Fprintf(n.out, "\nA new version of suiup is available: %s -> %s (run `suiup self update`)\n",
		check.CurrentVersion, check.LatestVersion)
}
