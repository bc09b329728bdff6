package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/grainfx/pkg/pipeline"
	"github.com/user/grainfx/pkg/ports"
)

// Runner processes the files of one directory sequentially.
type Runner struct {
	mode     Mode
	stage    pipeline.FileStage
	fs       ports.FileSystem
	progress ports.Progress
	logger   ports.Logger
	chain    string
}

// NewRunner creates a runner for mode that hands each matching file to stage.
func NewRunner(mode Mode, stage pipeline.FileStage, fs ports.FileSystem, progress ports.Progress, logger ports.Logger) *Runner {
	return &Runner{
		mode:     mode,
		stage:    stage,
		fs:       fs,
		progress: progress,
		logger:   logger.WithComponent(mode.Name),
	}
}

// WithChainName records the effect chain name in run stats.
func (r *Runner) WithChainName(name string) *Runner {
	r.chain = name
	return r
}

// Run lists cfg.InputDir, processes every match into cfg.OutputDir and
// returns the stats. Setup failures are returned before any file is touched.
// Under PolicyAbort the first *FileError ends the run; under PolicyContinue
// failures are collected and ErrFilesFailed is returned at the end.
func (r *Runner) Run(ctx context.Context, cfg Config) (*RunStats, error) {
	stats := &RunStats{
		Mode:      r.mode.Name,
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Policy:    cfg.Policy,
		Chain:     r.chain,
		Started:   time.Now(),
	}
	if stats.Policy == "" {
		stats.Policy = PolicyAbort
	}
	defer func() { stats.Elapsed = time.Since(stats.Started) }()

	if err := r.fs.MkdirAll(cfg.OutputDir); err != nil {
		r.logger.Error("Cannot create output directory %s: %s", cfg.OutputDir, err)
		return stats, fmt.Errorf("%w: %s: %w", ErrOutputDir, cfg.OutputDir, err)
	}
	r.logger.Info("Output directory: %s", cfg.OutputDir)

	manifest, err := BuildManifest(r.fs, cfg.InputDir, r.mode)
	if err != nil {
		r.logger.Error("Cannot read input directory %s: %s", cfg.InputDir, err)
		return stats, fmt.Errorf("%w: %s: %w", ErrInputDir, cfg.InputDir, err)
	}
	matched := manifest.Matched()
	stats.Listed = len(manifest.Entries)
	stats.Matched = len(matched)

	if r.mode.Announce {
		r.logger.Info("Files in %s: %s", cfg.InputDir, strings.Join(manifest.Names(), ", "))
	}
	r.logger.Info("Found %d matching files in %s", len(matched), cfg.InputDir)

	r.progress.Start(len(matched), r.mode.Name)
	runErr := r.loop(ctx, cfg, manifest, stats)
	r.progress.Finish()

	if runErr != nil {
		r.logSummary(stats)
		return stats, runErr
	}

	r.logger.Info("All processing complete.")
	r.logSummary(stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrFilesFailed, stats.Failed, stats.Matched)
	}
	return stats, nil
}

func (r *Runner) loop(ctx context.Context, cfg Config, manifest Manifest, stats *RunStats) error {
	for _, entry := range manifest.Entries {
		if ctx.Err() != nil {
			stats.Interrupted = true
			r.logger.Warn("Interrupted, stopping before %s", entry.Name)
			return ctx.Err()
		}

		if !entry.Match {
			r.skip(entry, stats)
			continue
		}

		err := r.processFile(ctx, cfg, entry, stats)
		r.progress.Advance()
		if err == nil {
			continue
		}
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			stats.Interrupted = true
			r.logger.Warn("Interrupted while processing %s", entry.Name)
			return err
		}

		fe := newFileError(entry.Name, err)
		stats.Failed++
		stats.Failures = append(stats.Failures, fe)
		if stats.Policy == PolicyAbort {
			r.logger.Error("Failed to process %s (%s): %s", entry.Name, fe.Stage, fe.Err)
			return fe
		}
		r.logger.Warn("Failed to process %s (%s): %s", entry.Name, fe.Stage, fe.Err)
	}
	return nil
}

func (r *Runner) skip(entry Entry, stats *RunStats) {
	stats.Skipped++
	stats.SkippedNames = append(stats.SkippedNames, entry.Name)
	if r.mode.Announce {
		r.logger.Info("Skipping %s (%s)", entry.Name, entry.Reason)
	} else {
		r.logger.Debug("Skipping %s (%s)", entry.Name, entry.Reason)
	}
}

// processFile runs the stage on one entry and removes a partial output
// when the stage failed after it started writing.
func (r *Runner) processFile(ctx context.Context, cfg Config, entry Entry, stats *RunStats) error {
	job := pipeline.FileJob{
		Name:   entry.Name,
		Source: filepath.Join(cfg.InputDir, entry.Name),
		Dest:   filepath.Join(cfg.OutputDir, r.mode.OutputName(entry.Name)),
	}
	r.logger.Info("Processing %s", entry.Name)

	result, err := r.stage.Execute(ctx, job)
	if err != nil {
		// Output from an earlier run stays unless this run wrote over it.
		if pipeline.LeftPartial(err) {
			if rmErr := r.fs.Remove(job.Dest); rmErr != nil {
				r.logger.Debug("Cannot remove partial output %s: %s", job.Dest, rmErr)
			}
		}
		return err
	}

	stats.Processed++
	stats.InputBytes += entry.Size
	stats.OutputBytes += result.Bytes
	stats.Results = append(stats.Results, result)

	if result.Video != nil {
		r.logger.Info("Saved %s (%dx%d, %s fps, %d frames) in %s", filepath.Base(result.Output),
			result.Width, result.Height, result.Video.FrameRate, result.Video.Frames, result.Elapsed.Round(time.Millisecond))
	} else {
		r.logger.Info("Saved %s (%dx%d) in %s", filepath.Base(result.Output),
			result.Width, result.Height, result.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func (r *Runner) logSummary(stats *RunStats) {
	r.logger.Info("Processed %d, skipped %d, failed %d of %d entries in %s",
		stats.Processed, stats.Skipped, stats.Failed, stats.Listed, time.Since(stats.Started).Round(time.Millisecond))
}
