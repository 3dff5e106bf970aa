package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arkship/transcribot/internal/media"
	"github.com/google/uuid"
)

// FFmpegExtractor shells out to ffmpeg to strip the audio track from a
// video container into an mp3 artifact under outputDir.
type FFmpegExtractor struct {
	binary    string
	outputDir string
}

func NewFFmpegExtractor(outputDir string) media.Extractor {
	return &FFmpegExtractor{
		binary:    "ffmpeg",
		outputDir: outputDir,
	}
}

func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	audioPath := filepath.Join(e.outputDir, uuid.NewString()+".mp3")

	cmd := exec.CommandContext(ctx, e.binary, "-i", videoPath, "-vn", "-acodec", "libmp3lame", "-y", audioPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Info("extracting audio", "video_path", videoPath, "audio_path", audioPath)
	if err := cmd.Run(); err != nil {
		// A partial artifact from a failed run must not leak.
		_ = os.Remove(audioPath)
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		slog.Error("ffmpeg extraction failed", "video_path", videoPath, "error", detail)
		return "", fmt.Errorf("ffmpeg: %s", lastLine(detail))
	}
	return audioPath, nil
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
