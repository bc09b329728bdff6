package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Batch runner (info)
		"Output directory: %s":                                    "出力ディレクトリ: %s",
		"Files in %s: %s":                                         "%s 内のファイル: %s",
		"Found %d matching files in %s":                           "%[2]s で対象ファイルを %[1]d 件見つけました",
		"Processing %s":                                           "%s を処理中",
		"Saved %s (%dx%d) in %s":                                  "%s を保存しました (%dx%d, %s)",
		"Saved %s (%dx%d, %s fps, %d frames) in %s":               "%s を保存しました (%dx%d, %s fps, %d フレーム, %s)",
		"Skipping %s (%s)":                                        "%s をスキップします (%s)",
		"All processing complete.":                                "すべての処理が完了しました。",
		"Processed %d, skipped %d, failed %d of %d entries in %s": "%[4]d 件中 処理 %[1]d 件, スキップ %[2]d 件, 失敗 %[3]d 件 (%[5]s)",
		"Summary written to %s":                                   "サマリーを %s に書き出しました",

		// Interruption
		"Interrupted, shutting down...":   "中断されました。シャットダウン中...",
		"Interrupted, stopping before %s": "中断されました。%s 以降は処理しません",
		"Interrupted while processing %s": "%s の処理中に中断されました",

		// Stages (debug)
		"Loaded %s: %dx%d": "%s を読み込みました: %dx%d",
		"Video %s: %dx%d at %s fps, %d frames, codec %s, audio %t, rotation %d": "動画 %s: %dx%d, %s fps, %d フレーム, コーデック %s, 音声 %t, 回転 %d",
		"Encoded %d frames for %s":                                  "%[2]s の %[1]d フレームをエンコードしました",
		"Abort encoder for %s: %s":                                  "%s のエンコーダーを中止: %s",
		"Probed %s with %s: %dx%d at %s fps, %d frames":             "%s を %s で解析: %dx%d, %s fps, %d フレーム",
		"Probe backend failed for %s: %s":                           "%s の解析に失敗しました: %s",
		"Using %s (%s)":                                             "%s を使用します (%s)",
		"ffprobe not found, probing with the container parser only": "ffprobe が見つかりません。コンテナ解析のみで調べます",
		"Cannot remove partial output %s: %s":                       "途中まで書き込まれた出力 %s を削除できません: %s",

		// Warnings
		"Failed to save preview for %s: %s": "%s のプレビュー保存に失敗しました: %s",

		// Errors
		"Failed to process %s (%s): %s":         "%s の処理に失敗しました (%s): %s",
		"Cannot create output directory %s: %s": "出力ディレクトリ %s を作成できません: %s",
		"Cannot read input directory %s: %s":    "入力ディレクトリ %s を読み込めません: %s",
		"Failed to write summary: %s":           "サマリーの書き出しに失敗しました: %s",
		"ffmpeg not found: %s":                  "ffmpeg が見つかりません: %s",
	})
}
