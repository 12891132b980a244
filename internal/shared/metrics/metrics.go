package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name  string
	help  string
	value atomic.Uint64
}

var (
	resumesGenerated       = &counter{name: "resumes_generated_total", help: "Tailored resumes generated"}
	resumeGenerationFailed = &counter{name: "resume_generation_failed_total", help: "Tailored resume generations that failed"}
	resumesParsed          = &counter{name: "resumes_parsed_total", help: "Uploaded PDF resumes parsed"}
	resumeParseFailed      = &counter{name: "resume_parse_failed_total", help: "Uploaded PDF resumes that failed to parse"}
	pdfRendered            = &counter{name: "pdf_rendered_total", help: "PDFs rendered from LaTeX"}
	pdfRenderFailed        = &counter{name: "pdf_render_failed_total", help: "PDF renders that failed"}
	pdfCacheHits           = &counter{name: "pdf_cache_hits_total", help: "PDF requests served from the object store"}
	renderJobsReceived     = &counter{name: "render_jobs_received_total", help: "Render jobs received by the worker"}
	renderJobsCompleted    = &counter{name: "render_jobs_completed_total", help: "Render jobs completed by the worker"}
	renderJobsFailed       = &counter{name: "render_jobs_failed_total", help: "Render jobs that failed in the worker"}

	counters = []*counter{
		resumesGenerated, resumeGenerationFailed, resumesParsed, resumeParseFailed,
		pdfRendered, pdfRenderFailed, pdfCacheHits,
		renderJobsReceived, renderJobsCompleted, renderJobsFailed,
	}

	generationDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 20000, 40000, 60000})
	renderDuration     = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

func IncResumesGenerated()       { resumesGenerated.value.Add(1) }
func IncResumeGenerationFailed() { resumeGenerationFailed.value.Add(1) }
func IncResumesParsed()          { resumesParsed.value.Add(1) }
func IncResumeParseFailed()      { resumeParseFailed.value.Add(1) }
func IncPDFRendered()            { pdfRendered.value.Add(1) }
func IncPDFRenderFailed()        { pdfRenderFailed.value.Add(1) }
func IncPDFCacheHits()           { pdfCacheHits.value.Add(1) }
func IncRenderJobsReceived()     { renderJobsReceived.value.Add(1) }
func IncRenderJobsCompleted()    { renderJobsCompleted.value.Add(1) }
func IncRenderJobsFailed()       { renderJobsFailed.value.Add(1) }

// ObserveGenerationMs records an LLM generation duration in milliseconds.
func ObserveGenerationMs(value float64) {
	generationDuration.Observe(max(value, 0))
}

// ObserveRenderMs records a pdflatex render duration in milliseconds.
func ObserveRenderMs(value float64) {
	renderDuration.Observe(max(value, 0))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	for _, c := range counters {
		writeCounter(&buf, c.name, c.help, c.value.Load())
	}
	writeHistogram(&buf, "resume_generation_duration_ms", "Resume generation duration in milliseconds", generationDuration.Snapshot())
	writeHistogram(&buf, "pdf_render_duration_ms", "PDF render duration in milliseconds", renderDuration.Snapshot())
	return buf.String()
}

// histogram counts are stored per bucket and accumulated on render.
type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
