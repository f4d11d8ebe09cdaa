package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// Range is a half-open interval [Min, Max) of milliseconds or counts.
type Range struct {
	Min int `yaml:"min" validate:"gte=0"`
	Max int `yaml:"max" validate:"gtefield=Min"`
}

// Pick returns a uniform value in the range, or Min when the range is empty.
func (r Range) Pick(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min)
}

// Simulation holds the pacing and failure knobs of every stage. Durations are
// milliseconds of real time before the speed scale is applied.
type Simulation struct {
	BIOS       BIOS       `yaml:"bios"`
	Boot       Boot       `yaml:"boot"`
	Bootloader Bootloader `yaml:"bootloader"`
	AI         AI         `yaml:"ai"`
	Cloud      Cloud      `yaml:"cloud"`
	Container  Container  `yaml:"container"`
	Xorg       Xorg       `yaml:"xorg"`
}

type BIOS struct {
	Vendor     string `yaml:"vendor" validate:"required"`
	Version    string `yaml:"version" validate:"required"`
	NewVersion string `yaml:"new_version" validate:"required"`
	Date       string `yaml:"date" validate:"required"`

	HeaderDelay     int     `yaml:"header_delay_ms" validate:"gte=0"`
	CPUDetect       int     `yaml:"cpu_detect_ms" validate:"gte=0"`
	MemoryTest      int     `yaml:"memory_test_ms" validate:"gte=0"`
	DeviceProbe     int     `yaml:"device_probe_ms" validate:"gte=0"`
	PCIScan         int     `yaml:"pci_scan_ms" validate:"gte=0"`
	SystemInfo      int     `yaml:"system_info_ms" validate:"gte=0"`
	Backup          int     `yaml:"backup_ms" validate:"gte=0"`
	Verify          int     `yaml:"verify_ms" validate:"gte=0"`
	WarningDelay    int     `yaml:"warning_delay_ms" validate:"gte=0"`
	Erase           Range   `yaml:"erase_ms"`
	Write           Range   `yaml:"write_ms"`
	VerifyFlash     Range   `yaml:"verify_flash_ms"`
	Complete        int     `yaml:"complete_ms" validate:"gte=0"`
	SuccessDelay    int     `yaml:"success_delay_ms" validate:"gte=0"`
	CMOSErrorChance float64 `yaml:"cmos_error_chance" validate:"gte=0,lte=1"`
}

type Boot struct {
	LogCount   Range `yaml:"log_count"`
	LogDelay   Range `yaml:"log_delay_ms"`
	FinalDelay int   `yaml:"final_delay_ms" validate:"gte=0"`
}

type Bootloader struct {
	InstallDelay       int     `yaml:"install_delay_ms" validate:"gte=0"`
	ProbeDelay         int     `yaml:"probe_delay_ms" validate:"gte=0"`
	DeviceInstallDelay int     `yaml:"device_install_delay_ms" validate:"gte=0"`
	ConfigGenDelay     int     `yaml:"config_gen_delay_ms" validate:"gte=0"`
	KernelScanDelay    Range   `yaml:"kernel_scan_delay_ms"`
	WindowsFoundChance float64 `yaml:"windows_found_chance" validate:"gte=0,lte=1"`
	WindowsDelay       int     `yaml:"windows_delay_ms" validate:"gte=0"`
	WriteStageDelay    Range   `yaml:"write_stage_delay_ms"`
	FinishDelay        int     `yaml:"finish_delay_ms" validate:"gte=0"`
}

type AI struct {
	DownloadTime    Range   `yaml:"download_ms"`
	NetworkFailure  float64 `yaml:"network_failure_rate" validate:"gte=0,lte=1"`
	ChecksumFailure float64 `yaml:"checksum_failure_rate" validate:"gte=0,lte=1"`
	KernelPanic     float64 `yaml:"kernel_panic_rate" validate:"gte=0,lte=1"`
	OutOfMemory     float64 `yaml:"oom_rate" validate:"gte=0,lte=1"`
	LayerLoadDelay  Range   `yaml:"layer_load_delay_ms"`
	CompileTime     Range   `yaml:"compile_ms"`
	ChecksumDelay   Range   `yaml:"checksum_delay_ms"`
	Layers          int     `yaml:"layers" validate:"gte=1,lte=200"`
}

type Cloud struct {
	RateLimit            float64 `yaml:"rate_limit_rate" validate:"gte=0,lte=1"`
	InsufficientCapacity float64 `yaml:"insufficient_capacity_rate" validate:"gte=0,lte=1"`
	DependencyViolation  float64 `yaml:"dependency_violation_rate" validate:"gte=0,lte=1"`
	ChecksumMismatch     float64 `yaml:"checksum_mismatch_rate" validate:"gte=0,lte=1"`
	ProvisionTime        Range   `yaml:"provision_ms"`
}

type Container struct {
	ImagePullFailure      float64 `yaml:"image_pull_failure_rate" validate:"gte=0,lte=1"`
	ReadinessProbeFailure float64 `yaml:"readiness_probe_failure_rate" validate:"gte=0,lte=1"`
	CrashLoop             float64 `yaml:"crash_loop_rate" validate:"gte=0,lte=1"`
	VolumeMount           float64 `yaml:"volume_mount_chance" validate:"gte=0,lte=1"`
	SecretMount           float64 `yaml:"secret_mount_chance" validate:"gte=0,lte=1"`
	SidecarInjection      float64 `yaml:"sidecar_injection_chance" validate:"gte=0,lte=1"`
	LayerPullTime         Range   `yaml:"layer_pull_ms"`
	LayerCount            Range   `yaml:"layer_count"`
}

type Xorg struct {
	PackageDelay     Range   `yaml:"package_delay_ms"`
	ModuleDelay      Range   `yaml:"module_delay_ms"`
	SecurityPolicies int     `yaml:"security_policies_ms" validate:"gte=0"`
	FontCache        int     `yaml:"font_cache_ms" validate:"gte=0"`
	HighRefresh      float64 `yaml:"high_refresh_chance" validate:"gte=0,lte=1"`
}

// DefaultSimulation returns the stock pacing of the installer.
func DefaultSimulation() Simulation {
	return Simulation{
		BIOS: BIOS{
			Vendor:          "American Megatrends BIOS (C)2003-2025",
			Version:         "AMIBIOS v08.00.15",
			NewVersion:      "v08.00.16",
			Date:            "11/15/2025",
			HeaderDelay:     400,
			CPUDetect:       800,
			MemoryTest:      1200,
			DeviceProbe:     900,
			PCIScan:         800,
			SystemInfo:      500,
			Backup:          1800,
			Verify:          1200,
			WarningDelay:    800,
			Erase:           Range{1500, 2500},
			Write:           Range{3000, 5000},
			VerifyFlash:     Range{2000, 3500},
			Complete:        800,
			SuccessDelay:    600,
			CMOSErrorChance: 0.25,
		},
		Boot: Boot{
			LogCount:   Range{8, 15},
			LogDelay:   Range{50, 200},
			FinalDelay: 300,
		},
		Bootloader: Bootloader{
			InstallDelay:       800,
			ProbeDelay:         600,
			DeviceInstallDelay: 500,
			ConfigGenDelay:     700,
			KernelScanDelay:    Range{200, 400},
			WindowsFoundChance: 0.3,
			WindowsDelay:       400,
			WriteStageDelay:    Range{400, 800},
			FinishDelay:        500,
		},
		AI: AI{
			DownloadTime:    Range{1000, 3000},
			NetworkFailure:  0.15,
			ChecksumFailure: 0.05,
			KernelPanic:     0.1,
			OutOfMemory:     0.2,
			LayerLoadDelay:  Range{300, 800},
			CompileTime:     Range{800, 2000},
			ChecksumDelay:   Range{500, 1500},
			Layers:          12,
		},
		Cloud: Cloud{
			RateLimit:            0.05,
			InsufficientCapacity: 0.3,
			DependencyViolation:  0.3,
			ChecksumMismatch:     0.2,
			ProvisionTime:        Range{300, 1200},
		},
		Container: Container{
			ImagePullFailure:      0.15,
			ReadinessProbeFailure: 0.2,
			CrashLoop:             0.05,
			VolumeMount:           0.4,
			SecretMount:           0.3,
			SidecarInjection:      0.6,
			LayerPullTime:         Range{150, 2500},
			LayerCount:            Range{3, 8},
		},
		Xorg: Xorg{
			PackageDelay:     Range{150, 400},
			ModuleDelay:      Range{120, 280},
			SecurityPolicies: 1200,
			FontCache:        1800,
			HighRefresh:      0.7,
		},
	}
}

// LoadSimulation starts from the defaults and overlays the YAML file at path,
// if any. Unknown keys are rejected so a typo does not silently do nothing.
func LoadSimulation(path string) (Simulation, error) {
	sim := DefaultSimulation()
	if path == "" {
		return sim, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sim, fmt.Errorf("read simulation config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sim); err != nil && !errors.Is(err, io.EOF) {
		return sim, fmt.Errorf("parse simulation config %s: %w", path, err)
	}
	if err := sim.Validate(); err != nil {
		return sim, fmt.Errorf("invalid simulation config %s: %w", path, err)
	}
	return sim, nil
}

// Validate checks every probability, duration and range.
func (s Simulation) Validate() error {
	return validateStruct(s)
}
