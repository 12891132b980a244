// Package viewer loads a generated resume for display: its metadata and its
// rendered PDF, each with an independent result.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"resume-tailor/internal/apiclient"
	"resume-tailor/internal/shared/telemetry"
)

// ErrSuperseded is returned when a newer Load or Release replaced this one.
var ErrSuperseded = errors.New("load superseded")

// Fetcher is the subset of the API client the viewer needs.
type Fetcher interface {
	FetchResume(ctx context.Context, userID, resumeID int64) (apiclient.GeneratedResume, error)
	FetchResumePDF(ctx context.Context, userID, resumeID int64) ([]byte, error)
}

// View is the outcome of one load. A metadata failure does not hide the PDF
// and a PDF failure does not hide the metadata.
type View struct {
	UserID   int64
	ResumeID int64

	Resume    apiclient.GeneratedResume
	ResumeErr error

	// PDFPath is a transient file owned by the Loader until Release.
	PDFPath string
	PDFErr  error
}

// Loader keeps at most one view alive.
type Loader struct {
	fetch Fetcher
	dir   string

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	path   string
}

// NewLoader writes PDFs under dir; an empty dir means os.TempDir().
func NewLoader(fetch Fetcher, dir string) *Loader {
	return &Loader{fetch: fetch, dir: dir}
}

// Load cancels any in-flight load, releases the previous PDF file and fetches
// the requested resume. Results that arrive after a newer Load are discarded.
func (l *Loader) Load(ctx context.Context, userID, resumeID int64) (View, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.removeLocked()
	l.seq++
	seq := l.seq
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	view := View{UserID: userID, ResumeID: resumeID}
	var pdf []byte
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		view.Resume, view.ResumeErr = l.fetch.FetchResume(ctx, userID, resumeID)
	}()
	go func() {
		defer wg.Done()
		pdf, view.PDFErr = l.fetch.FetchResumePDF(ctx, userID, resumeID)
	}()
	wg.Wait()

	var path string
	if view.PDFErr == nil {
		path, view.PDFErr = l.writeTemp(userID, resumeID, pdf)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	ctxErr := ctx.Err()
	cancel()
	current := seq == l.seq
	if current {
		l.cancel = nil
	}
	if !current || ctxErr != nil {
		if path != "" {
			os.Remove(path)
		}
		if !current {
			return View{UserID: userID, ResumeID: resumeID}, ErrSuperseded
		}
		return View{UserID: userID, ResumeID: resumeID}, ctxErr
	}
	l.path = path
	view.PDFPath = path
	return view, nil
}

func (l *Loader) writeTemp(userID, resumeID int64, pdf []byte) (string, error) {
	f, err := os.CreateTemp(l.dir, fmt.Sprintf("resume_%d_%d-*.pdf", userID, resumeID))
	if err != nil {
		return "", fmt.Errorf("create preview file: %w", err)
	}
	name := f.Name()
	_, err = f.Write(pdf)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("write preview file: %w", err)
	}
	return name, nil
}

// Current returns the path of the live PDF file, if any.
func (l *Loader) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Release cancels any in-flight load and deletes the current PDF file.
func (l *Loader) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
	l.removeLocked()
}

func (l *Loader) removeLocked() {
	if l.path == "" {
		return
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		telemetry.Warn("viewer.release_failed", map[string]any{"path": l.path, "error": err})
	}
	l.path = ""
}
