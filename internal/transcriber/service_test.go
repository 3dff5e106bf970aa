package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type mockRemoteClient struct {
	mu          sync.Mutex
	opened      bool
	uploadURL   string
	uploadErr   error
	uploadCalls int
	submitErr   error
	pollErr     error
	pollStates  []*Job
	pollCalls   int
}

func (m *mockRemoteClient) Open() error  { m.opened = true; return nil }
func (m *mockRemoteClient) Close() error { m.opened = false; return nil }

func (m *mockRemoteClient) Upload(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadCalls++
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if m.uploadURL != "" {
		return m.uploadURL, nil
	}
	return "https://cdn.example/upload-1", nil
}

func (m *mockRemoteClient) Submit(_ context.Context, _ string) (*Job, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return &Job{ID: "job-1", Status: StatusQueued}, nil
}

func (m *mockRemoteClient) Poll(_ context.Context, jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pollErr != nil {
		return nil, m.pollErr
	}
	if m.pollCalls >= len(m.pollStates) {
		return nil, errors.New("poll called past the scripted states")
	}
	job := m.pollStates[m.pollCalls]
	m.pollCalls++
	job.ID = jobID
	return job, nil
}

type mockExtractor struct {
	audioPath string
	err       error
	calls     int
}

func (m *mockExtractor) ExtractAudio(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.audioPath, nil
}

type recordingSink struct {
	mu      sync.Mutex
	updates []sinkUpdate
}

type sinkUpdate struct {
	percent int
	message string
}

func (s *recordingSink) Publish(percent int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, sinkUpdate{percent: percent, message: message})
}

func (s *recordingSink) last(t *testing.T) sinkUpdate {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		t.Fatal("no updates delivered")
	}
	return s.updates[len(s.updates)-1]
}

func (s *recordingSink) percents() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.updates))
	for _, u := range s.updates {
		out = append(out, u.percent)
	}
	return out
}

func newTestService(remote RemoteClient, extractor *mockExtractor) *Service {
	svc := NewService(remote, extractor, 500*1024*1024)
	svc.pollInterval = time.Millisecond
	svc.estimateDuration = 50 * time.Millisecond
	svc.estimatorTick = 5 * time.Millisecond
	return svc
}

func writeTempMedia(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestProcessFile_AudioRoundTrip(t *testing.T) {
	remote := &mockRemoteClient{pollStates: []*Job{
		{Status: StatusQueued},
		{Status: StatusProcessing},
		{Status: StatusProcessing},
		{Status: StatusCompleted, Text: "hello"},
	}}
	svc := newTestService(remote, &mockExtractor{})
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "voice.mp3", "data"), sink)
	if !ok {
		t.Fatalf("expected success, got %q", text)
	}
	if text != "hello" {
		t.Fatalf("expected remote text unmodified, got %q", text)
	}

	final := sink.last(t)
	if final.percent != 100 || final.message != "" {
		t.Fatalf("expected final clean 100%% tick, got %+v", final)
	}
	for _, p := range sink.percents() {
		if p < 0 || p > 100 {
			t.Fatalf("percentage %d outside [0, 100]", p)
		}
	}
}

func TestProcessFile_RemoteErrorStatus(t *testing.T) {
	remote := &mockRemoteClient{pollStates: []*Job{
		{Status: StatusProcessing},
		{Status: StatusError, ErrorCode: "rate_limit_exceeded"},
	}}
	svc := newTestService(remote, &mockExtractor{})
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "voice.mp3", "data"), sink)
	if ok {
		t.Fatalf("expected failure, got %q", text)
	}
	if !strings.Contains(text, "превышен лимит запросов") {
		t.Fatalf("expected mapped error message in %q", text)
	}
	if !strings.HasPrefix(text, ProcessingErrorPrefix) {
		t.Fatalf("expected composed failure text, got %q", text)
	}

	final := sink.last(t)
	if final.percent != 95 || final.message != "превышен лимит запросов" {
		t.Fatalf("expected error tick at 95, got %+v", final)
	}
	for _, p := range sink.percents() {
		if p == 100 {
			t.Fatal("failure path must never claim 100%")
		}
	}
}

func TestProcessFile_EmptyCompletedTextIsFailure(t *testing.T) {
	for _, text := range []string{"", "   "} {
		remote := &mockRemoteClient{pollStates: []*Job{
			{Status: StatusCompleted, Text: text},
		}}
		svc := newTestService(remote, &mockExtractor{})
		sink := &recordingSink{}

		got, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "voice.mp3", "data"), sink)
		if ok {
			t.Fatalf("expected failure for completed text %q, got %q", text, got)
		}
		if !strings.Contains(got, "получен пустой текст транскрипции") {
			t.Fatalf("unexpected failure text: %q", got)
		}
		final := sink.last(t)
		if final.message == "" {
			t.Fatalf("expected error variant final tick, got %+v", final)
		}
	}
}

func TestProcessFile_UnsupportedExtension(t *testing.T) {
	remote := &mockRemoteClient{}
	svc := newTestService(remote, &mockExtractor{})
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "notes.txt", "data"), sink)
	if ok {
		t.Fatalf("expected failure, got %q", text)
	}
	if !strings.Contains(text, "неподдерживаемый формат файла") {
		t.Fatalf("unexpected failure text: %q", text)
	}
	if remote.uploadCalls != 0 {
		t.Fatal("unsupported file must not be uploaded")
	}
}

func TestProcessFile_OversizeAudioRejectedBeforeUpload(t *testing.T) {
	remote := &mockRemoteClient{}
	svc := newTestService(remote, &mockExtractor{})
	svc.maxFileSize = 2
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "voice.mp3", "too large"), sink)
	if ok {
		t.Fatalf("expected failure, got %q", text)
	}
	if !strings.Contains(text, "файл слишком большой для загрузки") {
		t.Fatalf("unexpected failure text: %q", text)
	}
	if remote.uploadCalls != 0 {
		t.Fatal("oversize file must not be uploaded")
	}
}

func TestProcessFile_VideoExtractionPipeline(t *testing.T) {
	extracted := writeTempMedia(t, "extracted.mp3", "audio-bytes")
	extractor := &mockExtractor{audioPath: extracted}
	remote := &mockRemoteClient{pollStates: []*Job{
		{Status: StatusCompleted, Text: "из видео"},
	}}
	svc := newTestService(remote, extractor)
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "clip.mp4", "video"), sink)
	if !ok {
		t.Fatalf("expected success, got %q", text)
	}
	if text != "из видео" {
		t.Fatalf("unexpected transcript: %q", text)
	}
	if extractor.calls != 1 {
		t.Fatalf("expected one extraction, got %d", extractor.calls)
	}
	if _, err := os.Stat(extracted); !os.IsNotExist(err) {
		t.Fatal("extracted audio artifact was not cleaned up")
	}

	percents := sink.percents()
	if len(percents) < 3 || percents[0] != 0 || percents[1] != 20 || percents[2] != 30 {
		t.Fatalf("expected 0/20/30 milestones, got %v", percents)
	}
}

func TestProcessFile_ExtractionFailureCleansNothingAndReportsZero(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("ffmpeg exited with status 1")}
	remote := &mockRemoteClient{}
	svc := newTestService(remote, extractor)
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "clip.mp4", "video"), sink)
	if ok {
		t.Fatalf("expected failure, got %q", text)
	}
	if !strings.Contains(text, "не удалось извлечь аудио") {
		t.Fatalf("unexpected failure text: %q", text)
	}
	final := sink.last(t)
	if final.percent != 0 {
		t.Fatalf("extraction failure must report progress 0, got %+v", final)
	}
	if remote.uploadCalls != 0 {
		t.Fatal("nothing must be uploaded after extraction failure")
	}
}

func TestProcessFile_NetworkExhaustedCarriesLastProgress(t *testing.T) {
	remote := &mockRemoteClient{pollErr: &NetworkError{Attempts: 3, Err: errors.New("connection reset")}}
	svc := newTestService(remote, &mockExtractor{})
	sink := &recordingSink{}

	text, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "voice.mp3", "data"), sink)
	if ok {
		t.Fatalf("expected failure, got %q", text)
	}
	if !strings.Contains(text, "ошибка сети при обращении к сервису") {
		t.Fatalf("unexpected failure text: %q", text)
	}
	final := sink.last(t)
	if final.message == "" || final.percent > 95 {
		t.Fatalf("expected bounded error tick, got %+v", final)
	}
}

func TestTranscribe_FinalTickArrivesAfterEstimatorStops(t *testing.T) {
	remote := &mockRemoteClient{pollStates: []*Job{
		{Status: StatusProcessing},
		{Status: StatusProcessing},
		{Status: StatusCompleted, Text: "готово"},
	}}
	svc := newTestService(remote, &mockExtractor{})
	sink := &recordingSink{}

	if _, ok := svc.ProcessFile(context.Background(), writeTempMedia(t, "voice.mp3", "data"), sink); !ok {
		t.Fatal("expected success")
	}

	// Progress must never regress after the terminal tick.
	percents := sink.percents()
	sawFinal := false
	for _, p := range percents {
		if sawFinal {
			t.Fatalf("tick %d delivered after the final 100%%: %v", p, percents)
		}
		if p == 100 {
			sawFinal = true
		}
	}
	if !sawFinal {
		t.Fatalf("final 100%% tick missing: %v", percents)
	}
}
