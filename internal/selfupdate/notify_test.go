// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNotifierWarnsWhenNewer(t *testing.T) {
	srv := newAPIServer(t, []wireRelease{{TagName: "v2.0.0"}})
	setExecPath(t, fakeBinary(t))

	var buf bytes.Buffer
	n := NewNotifier(newTestUpdater(t, "v1.0.0", srv), &buf)
	n.Start()
	n.Wait(5 * time.Second)

	out := buf.String()
	if !strings.Contains(out, "v1.0.0 -> v2.0.0") {
		t.Errorf("output %q missing version transition", out)
	}
	if !strings.Contains(out, "suiup self update") {
		t.Errorf("output %q missing upgrade hint", out)
	}
}

func TestNotifierSilentWhenCurrent(t *testing.T) {
	srv := newAPIServer(t, []wireRelease{{TagName: "v1.0.0"}})
	setExecPath(t, fakeBinary(t))

	var buf bytes.Buffer
	n := NewNotifier(newTestUpdater(t, "v1.0.0", srv), &buf)
	n.Start()
	n.Wait(5 * time.Second)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNotifierSilentOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	setExecPath(t, fakeBinary(t))

	var buf bytes.Buffer
	n := NewNotifier(newTestUpdater(t, "v1.0.0", srv), &buf)
	n.Start()
	n.Wait(5 * time.Second)

	if buf.Len() != 0 {
		t.Errorf("failures must stay silent, got %q", buf.String())
	}
}

func TestNotifierStartIsIdempotent(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"tag_name":"v1.0.0"}]`))
	}))
	t.Cleanup(srv.Close)
	setExecPath(t, fakeBinary(t))

	var buf bytes.Buffer
	n := NewNotifier(newTestUpdater(t, "v1.0.0", srv), &buf)
	for range 5 {
		n.Start()
	}
	n.Wait(5 * time.Second)

	if got := hits.Load(); got != 1 {
		t.Errorf("API hit %d times, want exactly 1", got)
	}
}
