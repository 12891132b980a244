package extract

import (
	"context"
	"errors"
	"testing"
)

func TestCheckPDF(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		data     []byte
		want     error
	}{
		{name: "declared pdf", declared: "application/pdf", data: []byte("anything")},
		{name: "declared with params", declared: "Application/PDF; charset=binary", data: []byte("x")},
		{name: "sniffed pdf", declared: "application/octet-stream", data: []byte("%PDF-1.7\n")},
		{name: "empty", declared: "application/pdf", data: nil, want: ErrEmpty},
		{name: "docx", declared: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", data: []byte("PK\x03\x04"), want: ErrUnsupportedType},
		{name: "text", declared: "text/plain", data: []byte("hello"), want: ErrUnsupportedType},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckPDF(tt.declared, tt.data)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPDFTextRejectsGarbage(t *testing.T) {
	if _, err := PDFText(context.Background(), []byte("not a pdf")); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
	if _, err := PDFText(context.Background(), nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestPDFTextHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.4")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
