package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

const MimePDF = "application/pdf"

var (
	// ErrEmpty indicates a zero-byte upload.
	ErrEmpty = errors.New("empty PDF file")

	// ErrUnsupportedType indicates the payload is not a PDF.
	ErrUnsupportedType = errors.New("invalid file type. Only PDF files are accepted")
)

// CheckPDF accepts data that is declared as a PDF or sniffs as one.
func CheckPDF(declared string, data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if normalizeMimeType(declared) == MimePDF {
		return nil
	}
	if normalizeMimeType(http.DetectContentType(data)) == MimePDF {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, normalizeMimeType(declared))
}

// PDFText extracts plain text from an in-memory PDF.
func PDFText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
