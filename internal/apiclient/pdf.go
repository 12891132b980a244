package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"resume-tailor/internal/shared/envelope"
	"resume-tailor/internal/shared/util"
)

// MaxUploadBytes mirrors the service's upload limit.
const MaxUploadBytes = 10 << 20

// UploadResumePDF sends a PDF for parsing and returns the extracted draft profile.
func (c *Client) UploadResumePDF(ctx context.Context, filename string, r io.Reader) (ParsedResume, error) {
	name, err := util.SanitizeFileName(filepath.Base(filename))
	if err != nil {
		name = "resume.pdf"
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename=%q`, name))
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	if err != nil {
		return ParsedResume{}, err
	}
	n, err := io.Copy(part, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return ParsedResume{}, fmt.Errorf("read upload: %w", err)
	}
	if n > MaxUploadBytes {
		return ParsedResume{}, &Error{Kind: KindValidation, Message: "File exceeds the 10MB upload limit."}
	}
	if err := mw.Close(); err != nil {
		return ParsedResume{}, err
	}

	data, err := call[parsedData](ctx, c, request{
		method:      http.MethodPost,
		path:        "/pdf-resume",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		accept:      "application/json",
	})
	if err != nil {
		return ParsedResume{}, err
	}
	return *data.ResumeData, nil
}

// FetchResumePDF downloads the rendered PDF. A 200 response is only accepted
// when it is declared as a PDF and has a body.
func (c *Client) FetchResumePDF(ctx context.Context, userID, resumeID int64) ([]byte, error) {
	resp, err := c.send(ctx, request{
		method: http.MethodGet,
		path:   resumePath(userID, resumeID) + "/pdf",
		accept: "application/pdf",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: MsgNetwork, Err: err}
	}
	return checkPDF(resp.StatusCode, resp.Header.Get("Content-Type"), body)
}

func checkPDF(status int, contentType string, body []byte) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	mediaType = strings.ToLower(mediaType)
	pdfLike := mediaType == "application/pdf" || mediaType == "application/octet-stream"

	if msg, ok := embeddedError(body); ok {
		return nil, &Error{Kind: KindServer, Status: status, Message: msg}
	}
	if !pdfLike {
		return nil, &Error{Kind: KindMalformed, Status: status, Message: MsgNotPDF, Err: fmt.Errorf("content type %q", contentType)}
	}
	if len(body) == 0 {
		return nil, &Error{Kind: KindMalformed, Status: status, Message: MsgEmptyPDF}
	}
	return body, nil
}

// embeddedError extracts message or detail from a JSON body served in place of a PDF.
func embeddedError(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var raw envelope.Raw
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return "", false
	}
	if msg := strings.TrimSpace(envelope.DetailText(raw.Detail)); msg != "" {
		return msg, true
	}
	if msg := strings.TrimSpace(raw.MessageText()); msg != "" {
		return msg, true
	}
	return "Failed to load PDF.", true
}

// DownloadResumePDF saves the PDF to dest. When dest is empty or a directory
// the file is named resume_{userID}_{resumeID}.pdf. It returns the written path.
func (c *Client) DownloadResumePDF(ctx context.Context, userID, resumeID int64, dest string) (string, error) {
	pdf, err := c.FetchResumePDF(ctx, userID, resumeID)
	if err != nil {
		return "", err
	}

	path := dest
	if path == "" {
		path = PDFFileName(userID, resumeID)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, PDFFileName(userID, resumeID))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".resume-*.pdf")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}
