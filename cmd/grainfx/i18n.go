// Package main provides localization for the grainfx CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Apply film grain, VCR distortion and contrast to images and videos.": "画像と動画にフィルムグレイン、VCR風の歪み、コントラストを適用します。",

		// Commands
		"Apply distortion and grain to every .jpg in a directory":           "ディレクトリ内のすべての .jpg に歪みとグレインを適用",
		"Apply grain, distortion and contrast to every .mov in a directory": "ディレクトリ内のすべての .mov にグレイン、歪み、コントラストを適用",
		"Show version information":                                          "バージョン情報を表示",
		"grainfx version %s":                                                "grainfx バージョン %s",

		// Flags
		"YAML config file (flags override its values)": "YAML 設定ファイル（フラグが値を上書き）",
		"Input directory":                                     "入力ディレクトリ",
		"Output directory (created if missing)":               "出力ディレクトリ（なければ作成）",
		"What to do when a file fails: abort or continue":     "ファイル失敗時の動作: abort または continue",
		"Seed for reproducible grain":                         "再現可能なグレインのためのシード",
		"Write a run summary to this file (.md or .json)":     "実行サマリーをこのファイルに出力（.md または .json）",
		"Write before/after preview sheets to this directory": "処理前後の比較画像をこのディレクトリに出力",
		"Save a video preview every N frames":                 "動画のプレビューを N フレームごとに保存",
		"Log level (debug, info, warn, error)":                "ログレベル（debug, info, warn, error）",
		"Log format (text, json)":                             "ログ形式（text, json）",
		"Suppress all log output":                             "すべてのログ出力を抑制",
		"Path to the ffmpeg executable":                       "ffmpeg 実行ファイルのパス",
		"Path to the ffprobe executable":                      "ffprobe 実行ファイルのパス",
		"Drop the audio track instead of copying it":          "音声トラックをコピーせずに破棄",
		"Write the resolved config to this file and exit":     "確定した設定をこのファイルに書き出して終了",
		"Config written to %s":                                "設定を %s に書き出しました",
	})
}
