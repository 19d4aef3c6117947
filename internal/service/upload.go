package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
)

const (
	pdfContentType = "application/pdf"
	sniffLen       = 512

	// MaxResumeSize bounds resume uploads.
	MaxResumeSize = 5 << 20
	// MaxJDSize bounds job description uploads.
	MaxJDSize = 10 << 20
)

// pdfReader checks that r holds a PDF no larger than limit and returns a reader
// over the full content.
func pdfReader(r io.Reader, size, limit int64) (io.Reader, error) {
	if size <= 0 {
		return nil, apierrors.NewErrBadRequest("File is empty")
	}
	if size > limit {
		return nil, apierrors.NewErrBadRequest(fmt.Sprintf("File exceeds the %dMB limit", limit>>20))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	if http.DetectContentType(head) != pdfContentType {
		return nil, apierrors.NewErrBadRequest("Only PDF files are allowed")
	}

	return io.MultiReader(bytes.NewReader(head), r), nil
}
