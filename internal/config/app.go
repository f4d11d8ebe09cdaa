// Package config resolves the command-line settings of the installer and the
// per-stage simulation knobs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the installer reads.
const EnvPrefix = "NEVERINSTALL_"

// App is the resolved run configuration. Flags win over environment
// variables, which win over the built-in defaults.
type App struct {
	Voice      string   `validate:"required"`
	Normal     bool
	Stages     []string `validate:"dive,required"`
	Shuffle    bool
	Speed      float64 `validate:"gte=0,lte=100"`
	Seed       uint64
	ConfigPath string
	NoLauncher bool
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogDir     string
}

// Defaults returns the configuration implied by the environment alone.
func Defaults() App {
	return App{
		Voice:      envOr(EnvPrefix+"VOICE", "opsec"),
		Normal:     envOrBool(EnvPrefix+"NORMAL", false),
		Stages:     SplitList(envOr(EnvPrefix+"STAGES", "")),
		Shuffle:    envOrBool(EnvPrefix+"SHUFFLE", true),
		Speed:      envOrFloat(EnvPrefix+"SPEED", 1),
		Seed:       envOrUint(EnvPrefix+"SEED", 0),
		ConfigPath: envOr(EnvPrefix+"CONFIG", ""),
		NoLauncher: envOrBool(EnvPrefix+"NO_LAUNCHER", false),
		LogLevel:   envOr(EnvPrefix+"LOG_LEVEL", "error"),
		LogDir:     envOr(EnvPrefix+"LOG_DIR", ""),
	}
}

// Normalize trims and lower-cases free-form values and clamps the speed.
func (a *App) Normalize() {
	a.Voice = strings.ToLower(strings.TrimSpace(a.Voice))
	a.LogLevel = strings.ToLower(strings.TrimSpace(a.LogLevel))
	a.Speed = clampFloat(a.Speed, 0, 100)
	names := a.Stages[:0]
	for _, s := range a.Stages {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			names = append(names, s)
		}
	}
	a.Stages = names
}

func (a App) Validate() error {
	return validateStruct(a)
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envOrFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrUint(key string, fallback uint64) uint64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
