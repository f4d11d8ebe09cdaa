package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"neverinstall/internal/config"
	"neverinstall/internal/escalation"
	"neverinstall/internal/installer"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/launcher"
	"neverinstall/internal/logging"
	"neverinstall/internal/scan"
	"neverinstall/internal/stages"
	"neverinstall/internal/ui"
)

const version = "3.2.1"

// streams is the terminal the program talks to.
type streams struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], streams{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: isTerminal(os.Stdout),
	})
	stop()
	os.Exit(code)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// execute runs the root command and maps its outcome to an exit code.
func execute(ctx context.Context, args []string, s streams) int {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return 1
	}
	cmd := newRootCommand(s)
	cmd.SetArgs(args)
	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(s streams) *cobra.Command {
	app := config.Defaults()
	cmd := &cobra.Command{
		Use:           "neverinstall",
		Short:         "Universal System Installer",
		Long:          "Installs your system. Then installs it again. Press Ctrl+C to stop.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), app, s)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&app.Voice, "voice", app.Voice, "message voice: opsec or occult")
	flags.BoolVar(&app.Normal, "normal", app.Normal, "skip the host scan and keep every message generic")
	flags.StringSliceVar(&app.Stages, "stages", app.Stages, "stages to run, in order (default all: bios,boot,bootloader,ai,cloud,container,xorg)")
	flags.BoolVar(&app.Shuffle, "shuffle", app.Shuffle, "shuffle the stage order once at startup")
	flags.Float64Var(&app.Speed, "speed", app.Speed, "time scale for every delay (1 = real time, 0 = instant)")
	flags.Uint64Var(&app.Seed, "seed", app.Seed, "random seed (0 picks one)")
	flags.StringVar(&app.ConfigPath, "config", app.ConfigPath, "YAML file overriding stage timings and failure rates")
	flags.BoolVar(&app.NoLauncher, "no-launcher", app.NoLauncher, "skip the interactive splash screen")
	flags.StringVar(&app.LogLevel, "log-level", app.LogLevel, "diagnostic log level: debug, info, warn or error")
	flags.StringVar(&app.LogDir, "log-dir", app.LogDir, "write diagnostics as JSON into this directory instead of stderr")
	return cmd
}

func run(ctx context.Context, app config.App, s streams) error {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	voice, err := escalation.ParseVoice(app.Voice)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(app.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: level, LogDir: app.LogDir, Writer: s.errOut})
	defer logger.Close()

	sim, err := config.LoadSimulation(app.ConfigPath)
	if err != nil {
		return err
	}

	seed := app.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	console := ui.NewConsole(s.out, ui.NewTheme(s.interactive))
	list, err := stages.Build(app.Stages, sim, stages.Env{Console: console, RNG: rng, Scale: app.Speed})
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		"voice", string(voice),
		"normal", app.Normal,
		"stages", len(list),
		"shuffle", app.Shuffle,
		"speed", app.Speed,
		"seed", seed,
		"config_file", app.ConfigPath != "",
	)

	var scanFn launcher.ScanFunc
	if !app.Normal {
		scanFn = func() *scan.Snapshot {
			start := time.Now()
			snap := scan.Scanner{}.Scan(ctx)
			logger.Info("host scan finished", "files", snap.FilesScanned, "took", time.Since(start))
			return snap
		}
	}

	var snap *scan.Snapshot
	if s.interactive && !app.NoLauncher {
		m, err := launcher.Run(ctx, scanFn, launcher.Options{Color: true, Input: s.in, Output: s.out})
		if err != nil {
			return err
		}
		if m.Choice() == launcher.Quit {
			logger.Info("launcher closed before installation")
			return installer.Farewell(console, nil, escalation.Baseline)
		}
		snap = m.Snapshot()
	} else if scanFn != nil {
		snap = scanFn()
	}

	var engine *escalation.Engine
	if snap != nil {
		engine = escalation.New(snap, voice, rng)
	}

	in, err := installer.New(installer.Options{
		Console: console,
		Engine:  engine,
		RNG:     rng,
		Stages:  list,
		Shuffle: app.Shuffle,
		Scale:   app.Speed,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	logger.Debug("stage order", "stages", in.StageNames())

	err = in.Run(interrupt.FromContext(ctx))
	if errors.Is(err, interrupt.ErrInterrupted) {
		logger.Info("installation interrupted", "cycle", in.Cycle(), "tier", in.Tier().String())
		return installer.Farewell(console, engine, in.Tier())
	}
	if err != nil {
		logger.Error("installation failed", "cycle", in.Cycle(), "error", err)
	}
	return err
}
