package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	CurrentVersion = "v0.1.0" // Will be overwritten by ldflags during build
	GitHubAPI      = "https://api.github.com/repos/chukul/ssoctl/releases/latest"
	CheckInterval  = 24 * time.Hour

	versionCachePath = filepath.Join(os.Getenv("HOME"), ".ssoctl", "version_check.json")
)

type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type VersionCheck struct {
	LastChecked   time.Time `json:"last_checked"`
	LatestVersion string    `json:"latest_version"`
}

// UpdateNotice holds the result of a background update check.
type UpdateNotice struct {
	ch chan string
}

// CheckForUpdates checks if a new version is available (non-blocking).
// The notice is printed later with Print so it never interleaves with
// terminal UI output.
func CheckForUpdates() *UpdateNotice {
	n := &UpdateNotice{ch: make(chan string, 1)}
	if !shouldCheck() {
		close(n.ch)
		return n
	}

	go func() {
		defer close(n.ch)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		latest, url, err := FetchLatestVersion(ctx)
		if err != nil {
			return // Silently fail
		}
		saveLastCheck(latest)

		if IsNewer(latest, CurrentVersion) {
			n.ch <- fmt.Sprintf("\n💡 Update available: %s → %s\n   Download: %s\n", CurrentVersion, latest, url)
		}
	}()
	return n
}

// Print writes the notice to w if the check has finished with a newer
// version. It does not wait for a pending check.
func (n *UpdateNotice) Print(w io.Writer) {
	if n == nil {
		return
	}
	select {
	case msg, ok := <-n.ch:
		if ok {
			fmt.Fprint(w, msg)
		}
	default:
	}
}

func shouldCheck() bool {
	data, err := os.ReadFile(versionCachePath)
	if err != nil {
		return true
	}

	var check VersionCheck
	if err := json.Unmarshal(data, &check); err != nil {
		return true
	}

	return time.Since(check.LastChecked) > CheckInterval
}

// FetchLatestVersion returns the tag and page URL of the latest GitHub release.
func FetchLatestVersion(ctx context.Context) (string, string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, GitHubAPI, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := newHTTPClient(3 * time.Second).Do(req)
	if err != nil {
		return "", "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", err
	}

	return release.TagName, release.HTMLURL, nil
}

// IsNewer compares dotted versions numerically; a leading "v" and any
// pre-release suffix are ignored.
func IsNewer(latest, current string) bool {
	l := versionParts(latest)
	c := versionParts(current)
	for i := 0; i < len(l) || i < len(c); i++ {
		var lv, cv int
		if i < len(l) {
			lv = l[i]
		}
		if i < len(c) {
			cv = c[i]
		}
		if lv != cv {
			return lv > cv
		}
	}
	return false
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	return parts
}

func saveLastCheck(version string) {
	check := VersionCheck{
		LastChecked:   time.Now(),
		LatestVersion: version,
	}
	data, _ := json.Marshal(check)
	_ = os.MkdirAll(filepath.Dir(versionCachePath), 0700)
	_ = os.WriteFile(versionCachePath, data, 0600)
}
