package installer

// Neutral pools used whenever no personalised line is available: always at
// the first tier, in --normal runs, and when every template needs data the
// host scan did not find.
var (
	EasterEggs = []string{
		"Reticulating splines...",
		"Defragmenting the registry hive...",
		"Rewinding tape backup to sector 0...",
		"Consulting the installation wizard (he is busy)...",
		"Optimizing the optimizer...",
		"Warming up the vacuum tubes...",
		"Calibrating flux capacitor...",
		"Negotiating with the printer driver...",
		"Counting to 2^64 (please be patient)...",
		"Downloading more RAM...",
		"Herding daemons into their processes...",
		"Polishing the bits...",
	}

	Warnings = []string{
		"WARNING: Disk space may be insufficient for optimal experience",
		"WARNING: Package signature is older than recommended",
		"WARNING: Your mouse has moved. Windows must restart for the change to take effect",
		"WARNING: Legacy compatibility mode enabled",
		"WARNING: System clock skew detected (3ms)",
		"WARNING: Optional dependency 'libfun' not found",
		"WARNING: Installer is running slower than the estimated 5 minutes",
		"WARNING: Cache directory is fragmented",
	}

	RetryMessages = []string{
		"Connection to mirror lost. Retrying...",
		"Checksum mismatch on package index. Retrying...",
		"Mirror responded with 503 Service Unavailable. Retrying...",
		"Timeout while resolving mirror.oldsoft.org. Retrying...",
		"Download stalled at 99%. Retrying...",
	}
)
