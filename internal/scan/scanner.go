package scan

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// historyBytesPerLine is the rough size of one shell history entry.
const historyBytesPerLine = 50

var projectRoots = []string{"Developer", "Projects", "repos", "code", "src"}

// HostFunc reports the hostname and a human readable OS name.
type HostFunc func(ctx context.Context) (hostname, osName string, err error)

// Scanner walks a home directory once. Zero-valued fields fall back to the
// real host: $HOME, runtime.GOOS, time.Now, gopsutil and os.Getenv.
type Scanner struct {
	Home   string
	GOOS   string
	Now    func() time.Time
	Host   HostFunc
	User   func() string
	Getenv func(string) string
}

// Scan produces a fully populated Snapshot. Unreadable locations leave their
// fields unknown; Scan itself never fails.
func (sc Scanner) Scan(ctx context.Context) *Snapshot {
	sc = sc.withDefaults()
	snap := &Snapshot{}

	if hostname, osName, err := sc.Host(ctx); err == nil {
		snap.Hostname = strings.TrimSpace(hostname)
		snap.OSName = strings.TrimSpace(osName)
	}
	snap.Username = strings.TrimSpace(sc.User())

	home := sc.Home
	if home != "" {
		if info, err := os.Stat(home); err != nil || !info.IsDir() {
			home = ""
		}
	}

	if home != "" {
		snap.DesktopCount = countEntries(filepath.Join(home, "Desktop"), &snap.FilesScanned)
		snap.DownloadsCount = countEntries(filepath.Join(home, "Downloads"), &snap.FilesScanned)
		snap.DotfileNames = listDotfiles(home, &snap.FilesScanned)
		snap.ProjectNames, snap.GitRepos, snap.EnvFileCount = scanProjects(home, &snap.FilesScanned)
		snap.SSHKeyNames = scanSSHKeys(filepath.Join(home, ".ssh"), &snap.FilesScanned)
		snap.BrowserProfiles = sc.detectBrowsers(home)
		snap.CloudConfigs = sc.detectCloudConfigs(home)
		snap.HistoryLines = estimateHistoryLines(home)
	}

	snap.ScanTime = sc.Now().Format("15:04:05")
	snap.normalize()
	return snap
}

func (sc Scanner) withDefaults() Scanner {
	if sc.Getenv == nil {
		sc.Getenv = os.Getenv
	}
	if sc.Home == "" {
		sc.Home = firstNonEmpty(sc.Getenv("HOME"), sc.Getenv("USERPROFILE"))
	}
	if sc.GOOS == "" {
		sc.GOOS = runtime.GOOS
	}
	if sc.Now == nil {
		sc.Now = time.Now
	}
	if sc.Host == nil {
		sc.Host = hostInfo
	}
	if sc.User == nil {
		getenv := sc.Getenv
		sc.User = func() string {
			if u, err := user.Current(); err == nil && u.Username != "" {
				// Windows reports DOMAIN\name.
				if idx := strings.LastIndex(u.Username, `\`); idx >= 0 {
					return u.Username[idx+1:]
				}
				return u.Username
			}
			return firstNonEmpty(getenv("USER"), getenv("USERNAME"))
		}
	}
	return sc
}

func hostInfo(ctx context.Context) (string, string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", "", err
	}
	osName := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if osName == "" {
		osName = info.OS
	}
	return info.Hostname, osName, nil
}

func countEntries(dir string, scanned *int) *int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	*scanned += len(entries)
	return Count(len(entries))
}

func listDotfiles(home string, scanned *int) []string {
	entries, err := os.ReadDir(home)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		*scanned++
		name := entry.Name()
		if strings.HasPrefix(name, ".") && len(name) > 1 && name != ".DS_Store" {
			out = append(out, name)
		}
	}
	return out
}

func scanProjects(home string, scanned *int) (projects, repos []string, envCount int) {
	for _, root := range projectRoots {
		dir := filepath.Join(home, root)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			*scanned++
			path := filepath.Join(dir, entry.Name())
			if !isDir(path) {
				continue
			}
			projects = append(projects, entry.Name())
			if exists(filepath.Join(path, ".git")) {
				repos = append(repos, entry.Name())
			}
			if exists(filepath.Join(path, ".env")) {
				envCount++
			}
		}
	}
	return projects, repos, envCount
}

func scanSSHKeys(dir string, scanned *int) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, entry := range entries {
		*scanned++
		name := entry.Name()
		if strings.HasPrefix(name, "id_") || strings.HasSuffix(name, ".pub") || name == "authorized_keys" {
			keys = append(keys, name)
		}
	}
	return keys
}

type probe struct {
	name string
	path string
}

func (sc Scanner) detectBrowsers(home string) []string {
	var probes []probe
	switch sc.GOOS {
	case "darwin":
		support := filepath.Join(home, "Library", "Application Support")
		probes = []probe{
			{"Chrome", filepath.Join(support, "Google", "Chrome")},
			{"Firefox", filepath.Join(support, "Firefox")},
			{"Safari", filepath.Join(home, "Library", "Safari")},
			{"Arc", filepath.Join(support, "Arc")},
			{"Brave", filepath.Join(support, "BraveSoftware")},
		}
	case "windows":
		local := sc.Getenv("LOCALAPPDATA")
		if local == "" {
			return nil
		}
		roaming := sc.Getenv("APPDATA")
		probes = []probe{
			{"Chrome", filepath.Join(local, "Google", "Chrome")},
			{"Firefox", filepath.Join(roaming, "Mozilla", "Firefox")},
			{"Brave", filepath.Join(local, "BraveSoftware")},
			{"Edge", filepath.Join(local, "Microsoft", "Edge")},
		}
	default:
		config := filepath.Join(home, ".config")
		probes = []probe{
			{"Chrome", filepath.Join(config, "google-chrome")},
			{"Firefox", filepath.Join(home, ".mozilla", "firefox")},
			{"Brave", filepath.Join(config, "BraveSoftware")},
			{"Chromium", filepath.Join(config, "chromium")},
		}
	}
	return matchDirs(probes)
}

func (sc Scanner) detectCloudConfigs(home string) []string {
	probes := []probe{
		{"AWS", filepath.Join(home, ".aws")},
		{"Azure", filepath.Join(home, ".azure")},
		{"Kubernetes", filepath.Join(home, ".kube")},
		{"Terraform", filepath.Join(home, ".terraform.d")},
	}
	if sc.GOOS == "windows" {
		if appdata := sc.Getenv("APPDATA"); appdata != "" {
			probes = append(probes, probe{"gcloud", filepath.Join(appdata, "gcloud")})
		}
	} else {
		probes = append(probes, probe{"gcloud", filepath.Join(home, ".config", "gcloud")})
	}
	return matchDirs(probes)
}

func estimateHistoryLines(home string) *int {
	candidates := []string{
		filepath.Join(home, ".zsh_history"),
		filepath.Join(home, ".bash_history"),
		filepath.Join(home, ".local", "share", "fish", "fish_history"),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil {
			return Count(int(info.Size() / historyBytesPerLine))
		}
	}
	return nil
}

func matchDirs(probes []probe) []string {
	var found []string
	for _, p := range probes {
		if isDir(p.path) {
			found = append(found, p.name)
		}
	}
	return found
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
