// SPDX-License-Identifier: MIT

// Package update implements the best-effort new-release notifier. The check
// runs concurrently with the tidy sequence and its result is collected, if
// already available, right before exit. A slow or failed check never delays
// or fails a run.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

// ReleaseURL is the endpoint answering the latest-release query. Variable so
// tests can point it at a local server.
var ReleaseURL = "https://api.github.com/repos/skaphos/branchsweep/releases/latest"

// HTTPTimeout bounds the whole release query.
const HTTPTimeout = 5 * time.Second

// Status is the outcome of one release check.
type Status struct {
	// Latest is the newest published version, set only when it is newer
	// than the running version.
	Latest string
	Err    error
}

// Start launches the release check in the background and returns a channel
// delivering at most one Status. Dev builds return nil; nothing to compare
// against.
func Start(current string) <-chan Status {
	if !comparable(current) {
		return nil
	}
	ch := make(chan Status, 1)
	go func() {
		latest, err := fetchLatestRelease()
		if err != nil {
			ch <- Status{Err: err}
			return
		}
		if newer(current, latest) {
			ch <- Status{Latest: latest}
			return
		}
		ch <- Status{}
	}()
	return ch
}

// Collect drains a pending Status without blocking. Returns the empty status
// when the check has not finished; a run never waits on the notifier.
func Collect(ch <-chan Status) Status {
	if ch == nil {
		return Status{}
	}
	select {
	case status := <-ch:
		return status
	default:
		return Status{}
	}
}

// Notice formats the user-facing upgrade hint for a completed check, or ""
// when there is nothing to say.
func Notice(current string, status Status) string {
	if status.Err != nil || status.Latest == "" {
		return ""
	}
	return fmt.Sprintf("A new release of branchsweep is available: %s -> %s\nRun: go install github.com/skaphos/branchsweep@latest",
		strings.TrimPrefix(current, "v"), strings.TrimPrefix(status.Latest, "v"))
}

func fetchLatestRelease() (string, error) {
	req, err := http.NewRequest(http.MethodGet, ReleaseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "branchsweep")

	client := &http.Client{Timeout: HTTPTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status from release endpoint: %s", resp.Status)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return strings.TrimSpace(payload.TagName), nil
}

// comparable reports whether the running version is a real release tag rather
// than a dev or source build.
func comparable(current string) bool {
	if current == "" || current == "dev" {
		return false
	}
	_, err := goversion.NewVersion(current)
	return err == nil
}

// newer reports whether latest is a strictly newer release than current.
// Unparseable tags read as not-newer; the notifier stays quiet on garbage.
func newer(current, latest string) bool {
	cur, err := goversion.NewVersion(current)
	if err != nil {
		return false
	}
	lat, err := goversion.NewVersion(latest)
	if err != nil {
		return false
	}
	return lat.GreaterThan(cur)
}
