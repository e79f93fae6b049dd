package watch

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent", "products.xlsx"), 0, silentLogger())
	if err == nil {
		t.Fatal("New() with missing directory succeeded, want error")
	}
}

func TestRun_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.xlsx")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	w, err := New(path, 50*time.Millisecond, silentLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var triggers atomic.Int64
	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			triggers.Add(1)
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher a moment to start, then modify the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("watcher never triggered after a write")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestRun_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.xlsx")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	w, err := New(path, 200*time.Millisecond, silentLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { triggers.Add(1) })
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("burst"), 0644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// One debounce window after the burst settles.
	time.Sleep(500 * time.Millisecond)
	if n := triggers.Load(); n != 1 {
		t.Errorf("burst of writes produced %d triggers, want 1", n)
	}

	cancel()
	<-done
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.xlsx")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	w, err := New(path, 50*time.Millisecond, silentLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { triggers.Add(1) })
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := triggers.Load(); n != 0 {
		t.Errorf("unrelated file produced %d triggers, want 0", n)
	}

	cancel()
	<-done
}
