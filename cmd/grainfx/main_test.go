package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/user/grainfx/pkg/config"
	"github.com/user/grainfx/pkg/ports"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("grainfx"), helpVars())
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return &cli, ctx
}

func TestParse_Commands(t *testing.T) {
	_, ctx := parse(t, "images", "-i", "in", "-o", "out")
	if ctx.Command() != "images" {
		t.Errorf("Command = %q, want images", ctx.Command())
	}
	_, ctx = parse(t, "video", "--input", "in", "--output", "out", "--ffmpeg", "/usr/bin/ffmpeg")
	if ctx.Command() != "video" {
		t.Errorf("Command = %q, want video", ctx.Command())
	}
}

func TestBuildConfig_Flags(t *testing.T) {
	cli, _ := parse(t, "images", "-i", "angel", "-o", "angel_output", "--seed", "9", "--on-error", "continue")

	cfg, err := cli.Images.buildConfig(nil)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.InputDir != "angel" || cfg.OutputDir != "angel_output" {
		t.Errorf("dirs = %q, %q", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.Seed == nil || *cfg.Seed != 9 {
		t.Errorf("Seed = %v", cfg.Seed)
	}
	if cfg.OnError != "continue" {
		t.Errorf("OnError = %q", cfg.OnError)
	}
}

func TestBuildConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grainfx.yaml")
	yaml := "input_dir: from_file\noutput_dir: out_file\non_error: continue\nffmpeg_path: /file/ffmpeg\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cli, _ := parse(t, "video", "-c", path, "-i", "from_flag", "--ffmpeg", "/flag/ffmpeg", "--no-audio")
	cfg, err := cli.Video.buildConfig(func(cfg *config.Config) {
		cfg.FFmpegPath = *cli.Video.FFmpeg
		cfg.KeepAudio = !cli.Video.NoAudio
	})
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.InputDir != "from_flag" {
		t.Errorf("flag should override file: InputDir = %q", cfg.InputDir)
	}
	if cfg.OutputDir != "out_file" || cfg.OnError != "continue" {
		t.Errorf("file values should survive: %+v", cfg)
	}
	if cfg.FFmpegPath != "/flag/ffmpeg" || cfg.KeepAudio {
		t.Errorf("video overrides not applied: %+v", cfg)
	}
}

func TestBuildConfig_Invalid(t *testing.T) {
	cli, _ := parse(t, "images", "-i", "in")
	if _, err := cli.Images.buildConfig(nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("missing output should be invalid, got %v", err)
	}

	cli, _ = parse(t, "images", "-i", "in", "-o", "out", "--on-error", "retry")
	if _, err := cli.Images.buildConfig(nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("bad policy should be invalid, got %v", err)
	}
}

func TestBuildConfig_Quiet(t *testing.T) {
	cli, _ := parse(t, "images", "-i", "in", "-o", "out", "-Q")
	cfg, err := cli.Images.buildConfig(nil)
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if ports.ParseLogLevel(cfg.LogLevel) != ports.LevelQuiet {
		t.Errorf("LogLevel = %q, want quiet", cfg.LogLevel)
	}
	if _, ok := newLogger(cfg).(interface{ Sync() error }); ok {
		t.Error("quiet mode should not build a structured logger")
	}
}

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogFormat = config.FormatJSON
	if _, ok := newLogger(cfg).(interface{ Sync() error }); !ok {
		t.Error("json format should build the structured logger")
	}
}

func TestHelpVars(t *testing.T) {
	vars := helpVars()
	for key := range helpTexts {
		if vars[key] == "" {
			t.Errorf("help var %s is empty", key)
		}
	}
}

func TestDumpConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grainfx.yaml")
	out := filepath.Join(dir, "never_created")
	cli, _ := parse(t, "video", "-i", "clips", "-o", out, "--seed", "5", "--no-audio", "--dump-config", path)

	if err := cli.Video.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dumping the config must not start a run")
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("load dumped config: %v", err)
	}
	if cfg.InputDir != "clips" || cfg.OutputDir != out {
		t.Errorf("dirs = %q, %q", cfg.InputDir, cfg.OutputDir)
	}
	if cfg.Seed == nil || *cfg.Seed != 5 {
		t.Errorf("Seed = %v", cfg.Seed)
	}
	if cfg.KeepAudio {
		t.Error("--no-audio should be saved as keep_audio: false")
	}
}
