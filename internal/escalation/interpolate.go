package escalation

import (
	"math/rand/v2"
	"strings"

	"neverinstall/internal/scan"
)

// Placeholder is one key of the fixed template vocabulary.
type Placeholder int

const (
	Hostname Placeholder = iota
	Username
	OSName
	Project
	GitRepo
	SSHKey
	Browser
	Cloud
	DesktopCount
	DownloadsCount
	ScanTime
	Dotfile
	EnvCount
	HistoryLines
	FilesScanned
	CycleNumber
)

var placeholderKeys = map[string]Placeholder{
	"hostname":        Hostname,
	"username":        Username,
	"os":              OSName,
	"project":         Project,
	"git_repo":        GitRepo,
	"ssh_key":         SSHKey,
	"browser":         Browser,
	"cloud":           Cloud,
	"desktop_count":   DesktopCount,
	"downloads_count": DownloadsCount,
	"scan_time":       ScanTime,
	"dotfile":         Dotfile,
	"env_count":       EnvCount,
	"history_lines":   HistoryLines,
	"files_scanned":   FilesScanned,
	"cycle":           CycleNumber,
}

// cycleMarker survives interpolation untouched so the cycle-header selector
// can substitute the real cycle number afterwards.
const cycleMarker = "{cycle}"

// ParsePlaceholder looks up a template key.
func ParsePlaceholder(key string) (Placeholder, bool) {
	p, ok := placeholderKeys[key]
	return p, ok
}

// Resolve returns the text for p, or false when the snapshot has no data for it.
func (p Placeholder) Resolve(snap *scan.Snapshot, rng *rand.Rand) (string, bool) {
	switch p {
	case Hostname:
		return nonEmpty(snap.Hostname)
	case Username:
		return nonEmpty(snap.Username)
	case OSName:
		return nonEmpty(snap.OSName)
	case ScanTime:
		return nonEmpty(snap.ScanTime)
	case Project:
		return pickOne(snap.ProjectNames, rng)
	case GitRepo:
		return pickOne(snap.GitRepos, rng)
	case SSHKey:
		return pickOne(snap.SSHKeyNames, rng)
	case Browser:
		return pickOne(snap.BrowserProfiles, rng)
	case Cloud:
		return pickOne(snap.CloudConfigs, rng)
	case Dotfile:
		return pickOne(snap.DotfileNames, rng)
	case DesktopCount:
		return scan.FormatCount(snap.DesktopCount)
	case DownloadsCount:
		return scan.FormatCount(snap.DownloadsCount)
	case HistoryLines:
		return scan.FormatCount(snap.HistoryLines)
	case EnvCount:
		return scan.FormatCount(&snap.EnvFileCount)
	case FilesScanned:
		return scan.FormatCount(&snap.FilesScanned)
	case CycleNumber:
		return cycleMarker, true
	}
	return "", false
}

// Interpolate replaces every {key} in template with data from snap. It
// returns false if any key is unknown or has no data; a partially filled
// template is never returned. Scanning resumes after each replacement, so
// braces inside a resolved value are left alone. An opening brace with no
// closing brace ends the scan and the rest of the template is kept as is.
func Interpolate(template string, snap *scan.Snapshot, rng *rand.Rand) (string, bool) {
	if snap == nil {
		snap = &scan.Snapshot{}
	}
	var out strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		width := strings.IndexByte(rest[open:], '}')
		if width < 0 {
			break
		}
		p, ok := ParsePlaceholder(rest[open+1 : open+width])
		if !ok {
			return "", false
		}
		value, ok := p.Resolve(snap, rng)
		if !ok {
			return "", false
		}
		out.WriteString(rest[:open])
		out.WriteString(value)
		rest = rest[open+width+1:]
	}
	out.WriteString(rest)
	return out.String(), true
}

func nonEmpty(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func pickOne(items []string, rng *rand.Rand) (string, bool) {
	if len(items) == 0 {
		return "", false
	}
	return items[rng.IntN(len(items))], true
}
