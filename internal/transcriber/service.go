package transcriber

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/arkship/transcribot/internal/media"
	"github.com/arkship/transcribot/internal/progress"
)

const (
	pollInterval     = 3 * time.Second
	estimateDuration = 30 * time.Second
	estimatorTick    = 500 * time.Millisecond

	// The estimator never claims completion; only a real terminal
	// status moves the bar past this bound.
	nearMaxPercent = 95

	extractedPercent     = 20
	audioUploadedPercent = 20
	videoUploadedPercent = 30
)

// Service drives one media file through upload, job submission and
// polling against the remote service, reporting synthetic progress
// through a sink while the real job state is opaque.
type Service struct {
	remote      RemoteClient
	extractor   media.Extractor
	maxFileSize int64

	pollInterval     time.Duration
	estimateDuration time.Duration
	estimatorTick    time.Duration
}

func NewService(remote RemoteClient, extractor media.Extractor, maxFileSize int64) *Service {
	return &Service{
		remote:           remote,
		extractor:        extractor,
		maxFileSize:      maxFileSize,
		pollInterval:     pollInterval,
		estimateDuration: estimateDuration,
		estimatorTick:    estimatorTick,
	}
}

// Open establishes the remote transport session.
func (s *Service) Open() error {
	return s.remote.Open()
}

// Close releases the remote transport session.
func (s *Service) Close() error {
	return s.remote.Close()
}

// ProcessFile transcribes an audio or video file. Failures are rendered
// into the returned text, never propagated as errors, so the frontend
// needs a single reply path; the final progress tick (success or error
// variant) is always delivered before ProcessFile returns.
func (s *Service) ProcessFile(ctx context.Context, path string, sink progress.Sink) (string, bool) {
	text, err := s.process(ctx, path, sink)
	if err == nil {
		return text, true
	}

	var f *Failure
	if !errors.As(err, &f) {
		f = AsFailure(err, 0)
	}
	slog.Error("file processing failed", "path", path, "progress", f.Progress, "reason", f.Message)
	sink.Publish(f.Progress, f.Message)
	return ProcessingErrorPrefix + "\n❌ " + f.Message, false
}

func (s *Service) process(ctx context.Context, path string, sink progress.Sink) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ClassifyExtension(ext) {
	case MediaKindVideo:
		return s.processVideo(ctx, path, sink)
	case MediaKindAudio:
		return s.processAudio(ctx, path, sink)
	default:
		slog.Warn("unsupported file extension", "path", path, "extension", ext)
		return "", newFailure(messageUnsupportedFormat, 0)
	}
}

func (s *Service) processVideo(ctx context.Context, path string, sink progress.Sink) (string, error) {
	sink.Publish(0, "")

	audioPath, err := s.extractor.ExtractAudio(ctx, path)
	if err != nil {
		slog.Error("audio extraction failed", "path", path, "error", err)
		return "", newFailure(messageExtractionFailed, 0)
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil {
			slog.Warn("failed to remove extracted audio", "path", audioPath, "error", err)
			return
		}
		slog.Info("removed extracted audio", "path", audioPath)
	}()

	info, err := os.Stat(audioPath)
	if err != nil {
		return "", newFailure(messageExtractionFailed, 0)
	}
	if info.Size() > s.maxFileSize {
		return "", newFailure(messageExtractedTooLarge, extractedPercent)
	}
	sink.Publish(extractedPercent, "")

	audioURL, err := s.upload(ctx, audioPath, extractedPercent)
	if err != nil {
		return "", err
	}
	sink.Publish(videoUploadedPercent, "")

	return s.transcribe(ctx, audioURL, sink, videoUploadedPercent)
}

func (s *Service) processAudio(ctx context.Context, path string, sink progress.Sink) (string, error) {
	sink.Publish(0, "")

	audioURL, err := s.upload(ctx, path, 0)
	if err != nil {
		return "", err
	}
	sink.Publish(audioUploadedPercent, "")

	return s.transcribe(ctx, audioURL, sink, audioUploadedPercent)
}

func (s *Service) upload(ctx context.Context, path string, progressBefore int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", AsFailure(err, progressBefore)
	}
	if info.Size() > s.maxFileSize {
		return "", newFailure(messageFileTooLarge, progressBefore)
	}

	slog.Info("uploading file", "path", path, "bytes", info.Size())
	audioURL, err := s.remote.Upload(ctx, path)
	if err != nil {
		slog.Error("upload failed", "path", path, "error", err)
		return "", AsFailure(err, progressBefore)
	}
	slog.Info("file uploaded", "url", audioURL)
	return audioURL, nil
}

// transcribe submits the job and polls it to a terminal state. One
// estimator goroutine runs per polling phase; it shares only the cancel
// context and the monotonic last-percent value with the poll loop, and
// is always awaited before the terminal tick is delivered.
func (s *Service) transcribe(ctx context.Context, audioURL string, sink progress.Sink, startPercent int) (string, error) {
	job, err := s.remote.Submit(ctx, audioURL)
	if err != nil {
		slog.Error("job submission failed", "error", err)
		return "", AsFailure(err, startPercent)
	}
	jobID := job.ID
	slog.Info("transcription job submitted", "job_id", jobID)

	var lastPercent atomic.Int64
	lastPercent.Store(int64(startPercent))

	estimatorCtx, stopEstimator := context.WithCancel(ctx)
	defer stopEstimator()
	estimatorDone := make(chan struct{})
	go func() {
		defer close(estimatorDone)
		w := progress.Window{Start: startPercent, End: nearMaxPercent, Duration: s.estimateDuration}
		progress.SimulateEvery(estimatorCtx, w, s.estimatorTick, func(p int) {
			lastPercent.Store(int64(p))
			sink.Publish(p, "")
		})
	}()
	awaitEstimator := func() {
		stopEstimator()
		<-estimatorDone
	}

	for {
		job, err = s.remote.Poll(ctx, jobID)
		if err != nil {
			awaitEstimator()
			slog.Error("job poll failed", "job_id", jobID, "error", err)
			return "", AsFailure(err, int(lastPercent.Load()))
		}
		slog.Info("job status", "job_id", jobID, "status", job.Status)

		switch job.Status {
		case StatusCompleted:
			awaitEstimator()
			if strings.TrimSpace(job.Text) == "" {
				// The remote claims success with nothing to show;
				// indistinguishable from a missing text field.
				return "", newFailure(messageEmptyTranscript, 100)
			}
			sink.Publish(100, "")
			return job.Text, nil
		case StatusError:
			awaitEstimator()
			msg := MessageForCode(job.ErrorCode)
			slog.Error("job failed remotely", "job_id", job.ID, "error_code", job.ErrorCode)
			return "", newFailure(msg, nearMaxPercent)
		}

		select {
		case <-ctx.Done():
			awaitEstimator()
			return "", AsFailure(ctx.Err(), int(lastPercent.Load()))
		case <-time.After(s.pollInterval):
		}
	}
}
