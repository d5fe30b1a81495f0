// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListReleasesFiltersDrafts(t *testing.T) {
	t.Parallel()

	releases := []githubRelease{
		{TagName: "testnet-v1.39.3", Name: "Testnet 1.39.3"},
		{TagName: "testnet-v1.40.0", Name: "Draft", Draft: true},
		{TagName: "mainnet-v1.38.1", Name: "Mainnet 1.38.1"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(releases); err != nil {
			t.Errorf("encoding releases: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient("MystenLabs", "sui", WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 non-draft releases, got %d", len(got))
	}
	for _, r := range got {
		if r.Draft {
			t.Errorf("draft release %q should have been filtered", r.TagName)
		}
	}
}

func TestListReleasesPagination(t *testing.T) {
	t.Parallel()

	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		page := r.URL.Query().Get("page")
		if page == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/MystenLabs/sui/releases?page=2>; rel="next"`, srvURL))
			_ = json.NewEncoder(w).Encode([]githubRelease{{TagName: "testnet-v1.2.0"}})
			return
		}
		_ = json.NewEncoder(w).Encode([]githubRelease{{TagName: "testnet-v1.1.0"}})
	}))
	defer srv.Close()
	srvURL = srv.URL

	client := NewClient("MystenLabs", "sui", WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected releases from both pages, got %d", len(got))
	}
}

func TestListReleasesRateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("MystenLabs", "sui", WithBaseURL(srv.URL))
	_, err := client.ListReleases(context.Background())

	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected *RateLimitError, got %v", err)
	}
	if rlErr.Limit != 60 {
		t.Errorf("limit = %d, want 60", rlErr.Limit)
	}
}

func TestGetReleaseByTag(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/releases/tags/testnet-v1.39.3") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(githubRelease{
			TagName: "testnet-v1.39.3",
			Name:    "Testnet 1.39.3",
			Body:    "## Highlights",
			Assets: []githubAsset{
				{Name: "sui-testnet-v1.39.3-ubuntu-x86_64.tgz", BrowserDownloadURL: "https://example.com/a.tgz"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("MystenLabs", "sui", WithBaseURL(srv.URL))

	t.Run("existing tag", func(t *testing.T) {
		got, err := client.GetReleaseByTag(context.Background(), "testnet-v1.39.3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TagName != "testnet-v1.39.3" {
			t.Errorf("tag = %q, want %q", got.TagName, "testnet-v1.39.3")
		}
		if len(got.Assets) != 1 {
			t.Errorf("assets = %d, want 1", len(got.Assets))
		}
		if got.Body != "## Highlights" {
			t.Errorf("body = %q, want release notes", got.Body)
		}
	})

	t.Run("missing tag", func(t *testing.T) {
		_, err := client.GetReleaseByTag(context.Background(), "testnet-v9.9.9")
		if !errors.Is(err, ErrReleaseNotFound) {
			t.Fatalf("expected ErrReleaseNotFound, got %v", err)
		}
	})
}

func TestTokenOnlySentToGitHubHosts(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()

	// The test server host matches the configured base URL, so the token
	// must be attached there.
	client := NewClient("MystenLabs", "sui", WithBaseURL(srv.URL), WithToken("secret"))
	if _, err := client.ListReleases(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token on matching host", gotAuth)
	}

	// A download from a foreign host must not carry the token.
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer foreign.Close()

	gotAuth = "unset"
	body, err := client.DownloadAsset(context.Background(), foreign.URL+"/asset.tgz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = body.Close()
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want no token on foreign host", gotAuth)
	}
}

func TestParseLinkHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"next present", `<https://api.github.com/x?page=2>; rel="next", <https://api.github.com/x?page=5>; rel="last"`, "https://api.github.com/x?page=2"},
		{"no next", `<https://api.github.com/x?page=1>; rel="prev"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseLinkHeader(tt.header); got != tt.want {
				t.Errorf("parseLinkHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
