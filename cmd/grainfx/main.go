// Package main provides the CLI entry point for grainfx.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/grainfx/pkg/adapters/ffmpegdecoder"
	"github.com/user/grainfx/pkg/adapters/ffmpegtool"
	"github.com/user/grainfx/pkg/adapters/h264encoder"
	"github.com/user/grainfx/pkg/adapters/imagingcodec"
	"github.com/user/grainfx/pkg/adapters/logger"
	"github.com/user/grainfx/pkg/adapters/nullsink"
	"github.com/user/grainfx/pkg/adapters/osfilesystem"
	"github.com/user/grainfx/pkg/adapters/previewsink"
	"github.com/user/grainfx/pkg/adapters/progress"
	"github.com/user/grainfx/pkg/adapters/smartprobe"
	"github.com/user/grainfx/pkg/batch"
	"github.com/user/grainfx/pkg/config"
	"github.com/user/grainfx/pkg/effects"
	"github.com/user/grainfx/pkg/pipeline"
	"github.com/user/grainfx/pkg/ports"
	"github.com/user/grainfx/pkg/stages/clip"
	"github.com/user/grainfx/pkg/stages/still"
	"github.com/user/grainfx/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Images  ImagesCmd  `cmd:"" help:"${help_images}"`
	Video   VideoCmd   `cmd:"" help:"${help_video}"`
	Version VersionCmd `cmd:"" help:"${help_version}"`
}

// CommonFlags are shared by the images and video commands. Pointer fields
// are nil when the flag is absent so the config file value survives.
type CommonFlags struct {
	Config     string `short:"c" type:"existingfile" help:"${help_config}"`
	DumpConfig string `name:"dump-config" help:"${help_dump_config}"`

	Input  *string `short:"i" group:"Input and Output" help:"${help_input}"`
	Output *string `short:"o" group:"Input and Output" help:"${help_output}"`

	OnError *string `group:"Processing" help:"${help_on_error}"`
	Seed    *uint64 `group:"Processing" help:"${help_seed}"`

	Summary      *string `group:"Reports" help:"${help_summary}"`
	PreviewDir   *string `group:"Reports" help:"${help_preview_dir}"`
	PreviewEvery *int    `group:"Reports" help:"${help_preview_every}"`

	LogLevel  *string `short:"l" group:"Logging" help:"${help_log_level}"`
	LogFormat *string `group:"Logging" help:"${help_log_format}"`
	Quiet     bool    `short:"Q" group:"Logging" help:"${help_quiet}"`
}

// ImagesCmd applies the still chain to every .jpg of a directory.
type ImagesCmd struct {
	CommonFlags `embed:""`
}

// VideoCmd applies the video chain to every .mov of a directory.
type VideoCmd struct {
	CommonFlags `embed:""`

	FFmpeg  *string `name:"ffmpeg" env:"GRAINFX_FFMPEG" group:"External Tools" help:"${help_ffmpeg}"`
	FFprobe *string `name:"ffprobe" env:"GRAINFX_FFPROBE" group:"External Tools" help:"${help_ffprobe}"`
	NoAudio bool    `group:"External Tools" help:"${help_no_audio}"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("grainfx"),
		kong.Description(l10n.T("Apply film grain, VCR distortion and contrast to images and videos.")),
		kong.UsageOnError(),
		helpVars(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the images command.
func (cmd *ImagesCmd) Run() error {
	cfg, err := cmd.buildConfig(nil)
	if err != nil {
		return err
	}
	if cmd.DumpConfig != "" {
		return dumpConfig(cfg, cmd.DumpConfig)
	}
	return run(cfg, batch.ImagesMode())
}

// Run executes the video command.
func (cmd *VideoCmd) Run() error {
	cfg, err := cmd.buildConfig(func(cfg *config.Config) {
		if cmd.FFmpeg != nil {
			cfg.FFmpegPath = *cmd.FFmpeg
		}
		if cmd.FFprobe != nil {
			cfg.FFprobePath = *cmd.FFprobe
		}
		if cmd.NoAudio {
			cfg.KeepAudio = false
		}
	})
	if err != nil {
		return err
	}
	if cmd.DumpConfig != "" {
		return dumpConfig(cfg, cmd.DumpConfig)
	}
	return run(cfg, batch.VideoMode())
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("grainfx version %s", version))
	return nil
}

// buildConfig loads the config file, if any, and applies flag overrides.
func (f *CommonFlags) buildConfig(extra func(*config.Config)) (config.Config, error) {
	cfg := config.Defaults()
	if f.Config != "" {
		loaded, err := config.LoadFromFile(f.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if f.Input != nil {
		cfg.InputDir = *f.Input
	}
	if f.Output != nil {
		cfg.OutputDir = *f.Output
	}
	if f.OnError != nil {
		cfg.OnError = *f.OnError
	}
	if f.Seed != nil {
		seed := *f.Seed
		cfg.Seed = &seed
	}
	if f.Summary != nil {
		cfg.Summary = *f.Summary
	}
	if f.PreviewDir != nil {
		cfg.PreviewDir = *f.PreviewDir
	}
	if f.PreviewEvery != nil {
		cfg.PreviewEvery = *f.PreviewEvery
	}
	if f.LogLevel != nil && *f.LogLevel != "" {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogFormat != nil && *f.LogFormat != "" {
		cfg.LogFormat = *f.LogFormat
	}
	if f.Quiet {
		cfg.LogLevel = ports.LevelQuiet.String()
	}
	if extra != nil {
		extra(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// dumpConfig writes the resolved configuration instead of running, so a
// command line can be turned into a config file.
func dumpConfig(cfg config.Config, path string) error {
	if err := cfg.SaveToFile(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintln(os.Stderr, l10n.F("Config written to %s", path))
	return nil
}

// newLogger picks the logger for the configured format and level.
func newLogger(cfg config.Config) ports.Logger {
	level := ports.ParseLogLevel(cfg.LogLevel)
	switch {
	case level == ports.LevelQuiet:
		return logger.NewNoop()
	case cfg.LogFormat == config.FormatJSON:
		return logger.NewStructured(level)
	default:
		return logger.NewConsole(level)
	}
}

func newProgress(cfg config.Config) ports.Progress {
	if cfg.LogFormat == config.FormatJSON || ports.ParseLogLevel(cfg.LogLevel) == ports.LevelQuiet {
		return progress.Noop{}
	}
	return progress.New()
}

// run wires adapters, stage and runner for one mode and executes the batch.
func run(cfg config.Config, mode batch.Mode) error {
	log := newLogger(cfg)
	if s, ok := log.(*logger.StructuredLogger); ok {
		defer s.Sync()
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	fs := osfilesystem.New()

	var sink ports.PreviewSink
	if cfg.PreviewDir != "" {
		if err := fs.MkdirAll(cfg.PreviewDir); err != nil {
			return fmt.Errorf("create preview directory: %w", err)
		}
		sink = previewsink.New(cfg.PreviewDir, fs, cfg.PreviewEvery)
	} else {
		sink = nullsink.New()
	}

	seeder := effects.NewSeeder(cfg.Seed)
	settings := summarizer.Settings{Seed: cfg.Seed}

	var (
		stage pipeline.FileStage
		chain *effects.Chain
	)
	switch mode.Name {
	case batch.VideoMode().Name:
		paths, err := ffmpegtool.Resolve(cfg.FFmpegPath, cfg.FFprobePath)
		if err != nil {
			log.Error("ffmpeg not found: %s", err)
			return err
		}
		if v, err := ffmpegtool.Version(ctx, paths.FFmpeg); err == nil {
			log.Debug("Using %s (%s)", paths.FFmpeg, v)
		}
		if paths.FFprobe == "" {
			log.Debug("ffprobe not found, probing with the container parser only")
		}

		opts := clip.DefaultOptions()
		opts.KeepAudio = cfg.KeepAudio
		chain = effects.VideoChain()
		stage = clip.NewStage(
			smartprobe.New(smartprobe.Options{FFprobePath: paths.FFprobe}, log),
			ffmpegdecoder.New(paths.FFmpeg),
			h264encoder.New(paths.FFmpeg),
			fs, chain, seeder, sink, log, opts,
		)
		settings.FFmpeg = paths.FFmpeg
		settings.Encoder = fmt.Sprintf("libx264 preset %s crf %d", opts.Encoder.Preset, opts.Encoder.CRF)

	default:
		codec := imagingcodec.New()
		chain = effects.StillChain()
		stage = still.NewStage(codec, fs, chain, seeder, sink, log)
		settings.Quality = codec.Quality()
	}
	settings.Chain = chain.String()

	runner := batch.NewRunner(mode, stage, fs, newProgress(cfg), log).WithChainName(chain.String())
	stats, runErr := runner.Run(ctx, cfg.ToBatchConfig())

	if cfg.Summary != "" && stats != nil {
		summary := summarizer.NewBuilder().WithSettings(settings).WithStats(stats).Build()
		w := summarizer.NewWriter(summarizer.ForPath(cfg.Summary), fs)
		if err := w.Write(cfg.Summary, summary); err != nil {
			log.Error("Failed to write summary: %s", err)
		} else {
			log.Info("Summary written to %s", cfg.Summary)
		}
	}

	return runErr
}

// helpVars resolves the help texts through the lexicon for the current locale.
func helpVars() kong.Vars {
	vars := kong.Vars{}
	for key, text := range helpTexts {
		vars[key] = l10n.T(text)
	}
	return vars
}

var helpTexts = map[string]string{
	"help_images":        "Apply distortion and grain to every .jpg in a directory",
	"help_video":         "Apply grain, distortion and contrast to every .mov in a directory",
	"help_version":       "Show version information",
	"help_config":        "YAML config file (flags override its values)",
	"help_dump_config":   "Write the resolved config to this file and exit",
	"help_input":         "Input directory",
	"help_output":        "Output directory (created if missing)",
	"help_on_error":      "What to do when a file fails: abort or continue",
	"help_seed":          "Seed for reproducible grain",
	"help_summary":       "Write a run summary to this file (.md or .json)",
	"help_preview_dir":   "Write before/after preview sheets to this directory",
	"help_preview_every": "Save a video preview every N frames",
	"help_log_level":     "Log level (debug, info, warn, error)",
	"help_log_format":    "Log format (text, json)",
	"help_quiet":         "Suppress all log output",
	"help_ffmpeg":        "Path to the ffmpeg executable",
	"help_ffprobe":       "Path to the ffprobe executable",
	"help_no_audio":      "Drop the audio track instead of copying it",
}
