// Package scan produces the one-time, read-only Snapshot of host and user
// facts that parameterises the installer's messages. Nothing in a Snapshot
// ever leaves the process.
package scan

import (
	"slices"
	"strconv"
)

// Snapshot is created once before the installer loop and never mutated.
//
// Empty strings and nil counts mean "unknown". Count fields are plain
// filesystem entry counts and are independent of the named sets.
type Snapshot struct {
	Hostname string
	OSName   string
	Username string

	DesktopCount   *int
	DownloadsCount *int
	HistoryLines   *int

	ProjectNames    []string
	GitRepos        []string
	DotfileNames    []string
	SSHKeyNames     []string
	BrowserProfiles []string
	CloudConfigs    []string

	EnvFileCount int
	FilesScanned int
	ScanTime     string
}

// Count returns a pointer to n, for building Snapshots by hand.
func Count(n int) *int {
	return &n
}

// FormatCount renders an optional count; ok is false when the count is unknown.
func FormatCount(n *int) (string, bool) {
	if n == nil {
		return "", false
	}
	return strconv.Itoa(*n), true
}

// normalize sorts and deduplicates every string set in place.
func (s *Snapshot) normalize() {
	for _, set := range []*[]string{
		&s.ProjectNames,
		&s.GitRepos,
		&s.DotfileNames,
		&s.SSHKeyNames,
		&s.BrowserProfiles,
		&s.CloudConfigs,
	} {
		*set = dedupe(*set)
	}
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
