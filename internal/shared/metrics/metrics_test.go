package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "x", "x", h.Snapshot())

	out := buf.String()
	for _, want := range []string{
		`x_bucket{le="10"} 1`,
		`x_bucket{le="100"} 2`,
		`x_bucket{le="+Inf"} 3`,
		`x_sum 555`,
		`x_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncResumesGenerated()
	IncPDFCacheHits()

	out := Render()
	for _, name := range []string{"resumes_generated_total", "pdf_cache_hits_total", "pdf_render_duration_ms_count"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
