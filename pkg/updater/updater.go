// Package updater checks GitHub for a newer dv release.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/deck_viewer/pkg/version"
)

// ReleaseURL is the GitHub API endpoint for the latest release.
const ReleaseURL = "https://api.github.com/repos/Dicklesworthstone/deck_viewer/releases/latest"

// Release is the subset of the GitHub release payload dv reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint.
type Checker struct {
	Client  *http.Client
	URL     string
	Current string
}

// NewChecker returns a checker for the running build. The short timeout
// keeps `dv version --check` responsive offline.
func NewChecker() *Checker {
	return &Checker{
		Client:  &http.Client{Timeout: 2 * time.Second},
		URL:     ReleaseURL,
		Current: version.Version,
	}
}

// Check returns the latest release when it is newer than Current, or nil
// when dv is up to date or GitHub rate-limits the request.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	// GitHub recommends sending a UA; some endpoints 403 without it.
	req.Header.Set("User-Agent", "deck-viewer-update-check")
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			return nil, nil
		}
		return nil, fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	if compareVersions(rel.TagName, c.Current) > 0 {
		return &rel, nil
	}
	return nil, nil
}

// semver is a parsed "vMAJOR.MINOR.PATCH[-pre]" string.
type semver struct {
	parts [3]int
	pre   string
}

func parseSemver(v string) (semver, bool) {
	var s semver
	v = strings.TrimPrefix(v, "v")
	if main, pre, ok := strings.Cut(v, "-"); ok {
		v, s.pre = main, pre
	}
	fields := strings.Split(v, ".")
	for i := 0; i < len(s.parts) && i < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return semver{}, false
		}
		s.parts[i] = n
	}
	return s, true
}

// compareVersions returns 1 if v1>v2, -1 if v1<v2, 0 if equal. A
// pre-release sorts below its release. Unparseable input falls back to
// string comparison.
func compareVersions(v1, v2 string) int {
	p1, ok1 := parseSemver(v1)
	p2, ok2 := parseSemver(v2)
	if !ok1 || !ok2 {
		return strings.Compare(strings.TrimPrefix(v1, "v"), strings.TrimPrefix(v2, "v"))
	}

	for i := range p1.parts {
		if p1.parts[i] != p2.parts[i] {
			if p1.parts[i] > p2.parts[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case p1.pre == p2.pre:
		return 0
	case p1.pre == "":
		return 1
	case p2.pre == "":
		return -1
	}
	return strings.Compare(p1.pre, p2.pre)
}
