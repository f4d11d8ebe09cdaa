package stages

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/ui"
)

var fakeHardware = Hardware{
	CPUBrand:      "Test CPU 9000",
	CPUCount:      8,
	CPUMHz:        3600,
	TotalMemoryKB: 16 * 1024 * 1024,
	Hostname:      "testbox",
	OSName:        "testos",
	NetworkCount:  2,
	DiskCount:     1,
}

func testEnv(out *bytes.Buffer, seed uint64) Env {
	return Env{
		Console: ui.NewConsole(out, ui.NewTheme(false)),
		RNG:     rand.New(rand.NewPCG(seed, 99)),
		Scale:   0,
		Now:     func() time.Time { return time.Date(2025, 11, 15, 21, 4, 5, 0, time.UTC) },
		Probe:   func() Hardware { return fakeHardware },
	}
}

func build(t *testing.T, sim config.Simulation, env Env, name string) Stage {
	t.Helper()
	built, err := Build([]string{name}, sim, env)
	require.NoError(t, err)
	require.Len(t, built, 1)
	return built[0]
}

func TestBuildDefaultsToEveryStage(t *testing.T) {
	var out bytes.Buffer
	all, err := Build(nil, config.DefaultSimulation(), testEnv(&out, 1))
	require.NoError(t, err)
	require.Len(t, all, len(Names()))

	seen := map[string]bool{}
	for _, s := range all {
		assert.NotEmpty(t, s.Name())
		seen[s.Name()] = true
	}
	assert.Len(t, seen, len(Names()))
}

func TestBuildKeepsOrderAndRejectsUnknown(t *testing.T) {
	var out bytes.Buffer
	env := testEnv(&out, 1)
	picked, err := Build([]string{"XORG", " boot "}, config.DefaultSimulation(), env)
	require.NoError(t, err)
	assert.Equal(t, "X Window System Setup", picked[0].Name())
	assert.Equal(t, "Kernel Boot Sequence", picked[1].Name())

	_, err = Build([]string{"boot", "floppy"}, config.DefaultSimulation(), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floppy")

	_, err = Build(nil, config.DefaultSimulation(), Env{})
	assert.Error(t, err)
}

func TestEveryStageCompletesInstantly(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			s := build(t, config.DefaultSimulation(), testEnv(&out, 3), name)
			start := time.Now()
			require.NoError(t, s.Run(interrupt.Never))
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.Contains(t, out.String(), "> "+s.Name())
		})
	}
}

func TestStageOutput(t *testing.T) {
	cases := map[string][]string{
		"bios": {
			"System Name: testbox",
			"CPU: Test CPU 9000",
			"CPU Speed: 3.60 GHz",
			"Total System Memory: 16.00 GB (16384 MB)",
			"WDC WD2000JB-00GVC0",
			"Found 00:1F.3 - SMBus Controller",
			"Host OS: testos",
			"CRITICAL: Firmware Update Sequence Initiated",
			"BIOS update successful - AMIBIOS v08.00.15 -> v08.00.16",
		},
		"boot":       {"] "},
		"bootloader": {"Found initrd image: /boot/initrd.img-5.4.0-39-generic", "Installation finished. No error reported."},
		"ai":         {"Loading layer 12/12 (FeedForward)...", "Inference engine ready."},
		"cloud":      {"Creating aws_vpc.main (VPC)", "Resource aws_cloudfront_distribution.cdn is Available", "Infrastructure provisioning complete."},
		"container":  {"Status: Downloaded newer image for python:3.9-slim", "Pod notification-worker Status: Running", "IP: 10.244."},
		"xorg":       {"[+] xfonts-base (1.0.5)", "Detected: ", "DefaultDepth: 24", "X Window System configured successfully!"},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, build(t, config.DefaultSimulation(), testEnv(&out, 5), name).Run(interrupt.Never))
			for _, w := range want {
				assert.Contains(t, out.String(), w)
			}
			assert.Contains(t, out.String(), "[21:04:05.000]")
		})
	}
}

func alwaysFailing() config.Simulation {
	sim := config.DefaultSimulation()
	sim.BIOS.CMOSErrorChance = 1
	sim.Bootloader.WindowsFoundChance = 1
	sim.AI.NetworkFailure, sim.AI.ChecksumFailure, sim.AI.KernelPanic, sim.AI.OutOfMemory = 1, 1, 1, 1
	sim.Cloud.RateLimit, sim.Cloud.InsufficientCapacity, sim.Cloud.DependencyViolation, sim.Cloud.ChecksumMismatch = 1, 1, 1, 1
	sim.Container.ImagePullFailure, sim.Container.ReadinessProbeFailure, sim.Container.CrashLoop = 1, 1, 1
	sim.Container.VolumeMount, sim.Container.SecretMount, sim.Container.SidecarInjection = 1, 1, 1
	sim.Xorg.HighRefresh = 1
	return sim
}

func TestFailureBranches(t *testing.T) {
	cases := map[string][]string{
		"bios":       {"WARNING: CMOS checksum invalid, loading defaults"},
		"bootloader": {"Found Windows Boot Manager on /dev/sda1"},
		"ai": {
			"502 Bad Gateway",
			"Checksum mismatch for shard 03",
			"'fused_rotary_embedding'",
			"Tried to allocate 24.5GB",
		},
		"cloud": {
			"429 Too Many Requests",
			"Retrying in different Availability Zone (us-east-1b)...",
			"Waiting for IAM propagation...",
			"Re-calculating hashes and retrying...",
		},
		"container": {
			"Connection timed out while pulling alpine:latest",
			"Mounting volume pvc-",
			"Mounting secret vault-token",
			"Injecting sidecar istio-proxy",
			"Readiness probe failed",
			"CrashLoopBackOff",
		},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, build(t, alwaysFailing(), testEnv(&out, 9), name).Run(interrupt.Never))
			for _, w := range want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestFailuresNeverFireAtZeroRate(t *testing.T) {
	sim := config.DefaultSimulation()
	sim.AI.NetworkFailure, sim.AI.ChecksumFailure, sim.AI.KernelPanic, sim.AI.OutOfMemory = 0, 0, 0, 0
	for seed := uint64(0); seed < 20; seed++ {
		var out bytes.Buffer
		require.NoError(t, build(t, sim, testEnv(&out, seed), "ai").Run(interrupt.Never))
		assert.NotContains(t, out.String(), "Error:")
	}
}

func TestRefreshRateFollowsMode(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		var out bytes.Buffer
		require.NoError(t, build(t, alwaysFailing(), testEnv(&out, seed), "xorg").Run(interrupt.Never))
		text := out.String()
		assert.NotContains(t, text, "3840x2160@144Hz")
		if !strings.Contains(text, "3840x2160") {
			assert.Contains(t, text, "@144Hz")
		}
	}
}

func TestStagesStopOnInterrupt(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			err := build(t, config.DefaultSimulation(), testEnv(&out, 2), name).Run(func() bool { return true })
			assert.ErrorIs(t, err, interrupt.ErrInterrupted)
		})
	}
}

func TestInterruptMidStage(t *testing.T) {
	var out bytes.Buffer
	env := testEnv(&out, 4)
	env.Scale = 1
	s := build(t, config.DefaultSimulation(), env, "cloud")

	deadline := time.Now().Add(150 * time.Millisecond)
	start := time.Now()
	err := s.Run(func() bool { return time.Now().After(deadline) })
	assert.ErrorIs(t, err, interrupt.ErrInterrupted)
	assert.Less(t, time.Since(start), time.Second)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteFailureStopsStage(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			env := testEnv(&out, 6)
			env.Console = ui.NewConsole(brokenWriter{}, ui.NewTheme(false))
			err := build(t, config.DefaultSimulation(), env, name).Run(interrupt.Never)
			require.Error(t, err)
			assert.NotErrorIs(t, err, interrupt.ErrInterrupted)
			assert.Contains(t, err.Error(), "broken pipe")
		})
	}
}
