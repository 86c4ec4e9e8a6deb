package updater

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		v1       string
		v2       string
		expected int // 1 if v1>v2, -1 if v1<v2, 0 if equal
	}{
		{"equal versions", "v1.0.0", "v1.0.0", 0},
		{"v1 greater major", "v2.0.0", "v1.0.0", 1},
		{"v1 less minor", "v1.0.0", "v1.1.0", -1},
		{"v1 greater patch", "v1.0.1", "v1.0.0", 1},
		{"mixed prefix", "v1.0.0", "1.0.0", 0},
		{"double digit minor", "v0.10.0", "v0.9.0", 1},
		{"short version", "v1.2", "v1.2.0", 0},
		{"prerelease below release", "v1.0.0-rc1", "v1.0.0", -1},
		{"release above prerelease", "v1.0.0", "v1.0.0-beta", 1},
		{"prerelease labels", "v1.0.0-beta", "v1.0.0-alpha", 1},
		{"dev build", "v0.1.0", "dev", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareVersions(tt.v1, tt.v2)
			if got != tt.expected {
				t.Errorf("compareVersions(%q, %q) = %d; want %d", tt.v1, tt.v2, got, tt.expected)
			}
		})
	}
}

func newTestChecker(url, current string) *Checker {
	return &Checker{Client: &http.Client{Timeout: time.Second}, URL: url, Current: current}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		wantTag string
		wantErr bool
	}{
		{"newer release", http.StatusOK, `{"tag_name":"v1.2.0","html_url":"https://example.com/r"}`, "v1.1.0", "v1.2.0", false},
		{"up to date", http.StatusOK, `{"tag_name":"v1.1.0"}`, "v1.1.0", "", false},
		{"older release", http.StatusOK, `{"tag_name":"v1.0.0"}`, "v1.1.0", "", false},
		{"rate limited", http.StatusForbidden, ``, "v1.0.0", "", false},
		{"too many requests", http.StatusTooManyRequests, ``, "v1.0.0", "", false},
		{"server error", http.StatusInternalServerError, ``, "v1.0.0", "", true},
		{"bad json", http.StatusOK, `{`, "v1.0.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "deck-viewer-update-check", r.Header.Get("User-Agent"))
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			rel, err := newTestChecker(srv.URL, tt.current).Check(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantTag == "" {
				assert.Nil(t, rel)
				return
			}
			require.NotNil(t, rel)
			assert.Equal(t, tt.wantTag, rel.TagName)
		})
	}
}

func TestCheckCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestChecker(srv.URL, "v1.0.0").Check(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	assert.Equal(t, ReleaseURL, c.URL)
	assert.NotEmpty(t, c.Current)
	assert.Equal(t, 2*time.Second, c.Client.Timeout)
}
