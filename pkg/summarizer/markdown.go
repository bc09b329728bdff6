package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# grainfx Run Summary\n\n")
	fmt.Fprintf(&sb, "- **Run ID**: %s\n", s.RunID)
	fmt.Fprintf(&sb, "- **Generated**: %s\n", s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- **Mode**: %s\n", s.Mode)
	fmt.Fprintf(&sb, "- **Input**: `%s`\n", s.Run.InputDir)
	fmt.Fprintf(&sb, "- **Output**: `%s`\n", s.Run.OutputDir)
	if s.Run.Interrupted {
		sb.WriteString("- **Status**: Interrupted\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Results\n\n")
	sb.WriteString("| Item | Value |\n|------|-------|\n")
	fmt.Fprintf(&sb, "| Entries listed | %d |\n", s.Run.Listed)
	fmt.Fprintf(&sb, "| Processed | %d |\n", s.Run.Processed)
	fmt.Fprintf(&sb, "| Skipped | %d |\n", s.Run.Skipped)
	fmt.Fprintf(&sb, "| Failed | %d |\n", s.Run.Failed)
	if s.Run.Frames > 0 {
		fmt.Fprintf(&sb, "| Frames | %d |\n", s.Run.Frames)
	}
	fmt.Fprintf(&sb, "| Input size | %s |\n", formatBytes(s.Run.InputBytes))
	fmt.Fprintf(&sb, "| Output size | %s |\n", formatBytes(s.Run.OutputBytes))
	fmt.Fprintf(&sb, "| Duration | %s |\n", formatMs(s.Run.DurationMs))
	sb.WriteString("\n")

	sb.WriteString("## Settings\n\n")
	sb.WriteString("| Setting | Value |\n|---------|-------|\n")
	fmt.Fprintf(&sb, "| Effects | %s |\n", orNA(s.Settings.Chain))
	fmt.Fprintf(&sb, "| Failure policy | %s |\n", orNA(s.Run.Policy))
	if s.Settings.Seed != nil {
		fmt.Fprintf(&sb, "| Seed | %d |\n", *s.Settings.Seed)
	} else {
		sb.WriteString("| Seed | random |\n")
	}
	if s.Settings.Quality > 0 {
		fmt.Fprintf(&sb, "| JPEG quality | %d |\n", s.Settings.Quality)
	}
	if s.Settings.Encoder != "" {
		fmt.Fprintf(&sb, "| Encoder | %s |\n", s.Settings.Encoder)
	}
	if s.Settings.FFmpeg != "" {
		fmt.Fprintf(&sb, "| ffmpeg | `%s` |\n", s.Settings.FFmpeg)
	}
	sb.WriteString("\n")

	if len(s.Files) > 0 {
		sb.WriteString("## Files\n\n")
		video := false
		for _, file := range s.Files {
			if file.Frames > 0 {
				video = true
				break
			}
		}
		if video {
			sb.WriteString("| File | Output | Size | FPS | Frames | Audio | Time |\n")
			sb.WriteString("|------|--------|------|-----|--------|-------|------|\n")
			for _, file := range s.Files {
				fmt.Fprintf(&sb, "| %s | %s | %dx%d | %s | %d | %s | %s |\n",
					file.Name, file.Output, file.Width, file.Height, file.FrameRate, file.Frames,
					yesNo(file.HasAudio), formatMs(file.DurationMs))
			}
		} else {
			sb.WriteString("| File | Output | Size | Bytes | Time |\n")
			sb.WriteString("|------|--------|------|-------|------|\n")
			for _, file := range s.Files {
				fmt.Fprintf(&sb, "| %s | %s | %dx%d | %s | %s |\n",
					file.Name, file.Output, file.Width, file.Height, formatBytes(file.Bytes), formatMs(file.DurationMs))
			}
		}
		sb.WriteString("\n")
	}

	if len(s.Failures) > 0 {
		sb.WriteString("## Failures\n\n")
		sb.WriteString("| File | Stage | Error |\n|------|-------|-------|\n")
		for _, fail := range s.Failures {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", fail.Name, fail.Stage, escapeCell(fail.Error))
		}
		sb.WriteString("\n")
	}

	if len(s.Skipped) > 0 {
		sb.WriteString("## Skipped\n\n")
		for _, name := range s.Skipped {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024*1024:
		return fmt.Sprintf("%.2f GB", float64(n)/(1024*1024*1024))
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func formatMs(ms int64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2f s", float64(ms)/1000)
	}
	return fmt.Sprintf("%d ms", ms)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// escapeCell keeps an error message on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

var _ Formatter = (*MarkdownFormatter)(nil)
