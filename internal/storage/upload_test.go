package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUploadLifecycle(t *testing.T) {
	svc := newTestService(t)

	var progress [][2]int64
	id, err := svc.Begin("track.mp3", 10, func(received, total int64) {
		progress = append(progress, [2]int64{received, total})
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if n, err := svc.Append(id, strings.NewReader("01234")); err != nil || n != 5 {
		t.Fatalf("append 1: n=%d err=%v", n, err)
	}
	if n, err := svc.Append(id, strings.NewReader("56789")); err != nil || n != 10 {
		t.Fatalf("append 2: n=%d err=%v", n, err)
	}

	want := [][2]int64{{5, 10}, {10, 10}}
	if len(progress) != 2 || progress[0] != want[0] || progress[1] != want[1] {
		t.Fatalf("progress = %v, want %v", progress, want)
	}

	url, err := svc.Complete(id)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.HasPrefix(url, "/files/") || !strings.HasSuffix(url, ".mp3") {
		t.Fatalf("url = %q, want /files/<id>.mp3", url)
	}

	data, err := os.ReadFile(filepath.Join(svc.Dir(), strings.TrimPrefix(url, "/files/")))
	if err != nil {
		t.Fatalf("read completed file: %v", err)
	}
	if string(data) != "0123456789" {
		t.Fatalf("stored bytes = %q", data)
	}

	// The session is gone once completed.
	if _, _, err := svc.Progress(id); !errors.Is(err, ErrUnknownUpload) {
		t.Fatalf("progress after complete: %v, want ErrUnknownUpload", err)
	}
}

func TestCompleteShortUploadStaysOpen(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Begin("track.mp3", 10, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.Append(id, strings.NewReader("01234")); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := svc.Complete(id); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("complete short upload: %v, want ErrIncomplete", err)
	}

	// The session keeps accepting chunks after the failed complete.
	if _, err := svc.Append(id, strings.NewReader("56789")); err != nil {
		t.Fatalf("append after failed complete: %v", err)
	}
	if _, err := svc.Complete(id); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestUndeclaredSizeCompletesAtAnyLength(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Begin("cover.png", 0, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.Append(id, strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := svc.Complete(id); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestAbortRemovesPartialData(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Begin("track.wav", 100, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.Append(id, strings.NewReader("partial")); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := svc.Abort(id); err != nil {
		t.Fatalf("abort: %v", err)
	}

	if _, _, err := svc.Progress(id); !errors.Is(err, ErrUnknownUpload) {
		t.Fatalf("progress after abort: %v, want ErrUnknownUpload", err)
	}

	// Nothing visible and nothing left in the staging dir.
	entries, err := os.ReadDir(svc.tmpDir)
	if err != nil {
		t.Fatalf("read staging dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging dir holds %d entries after abort", len(entries))
	}
}

func TestIncompleteUploadIsNotVisible(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.Begin("track.mp3", 10, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := svc.Append(id, strings.NewReader("01234")); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := os.ReadDir(svc.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Fatalf("incomplete upload produced visible file %q", e.Name())
		}
	}
}

func TestUnknownUpload(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Append("missing", strings.NewReader("x")); !errors.Is(err, ErrUnknownUpload) {
		t.Fatalf("append: %v", err)
	}
	if _, err := svc.Complete("missing"); !errors.Is(err, ErrUnknownUpload) {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.Abort("missing"); !errors.Is(err, ErrUnknownUpload) {
		t.Fatalf("abort: %v", err)
	}
}
