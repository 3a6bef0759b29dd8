package usecases

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pdfOfSize(size int) []byte {
	header := []byte("%PDF-1.4\n")
	return append(header, bytes.Repeat([]byte(" "), size-len(header))...)
}

func TestFileValidator(t *testing.T) {
	validator := NewFileValidator(1)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

	tests := []struct {
		name     string
		filename string
		content  []byte
		ok       bool
		reason   string
	}{
		{"valid pdf", "report.pdf", pdfOfSize(2048), true, ""},
		{"upper case extension", "REPORT.PDF", pdfOfSize(2048), true, ""},
		{"exactly the limit", "report.pdf", pdfOfSize(1024 * 1024), true, ""},
		{"over the limit", "report.pdf", pdfOfSize(1024*1024 + 1), false, "File too large. Maximum size is 1 MB"},
		{"empty", "report.pdf", []byte{}, false, "File is empty"},
		{"wrong extension", "report.docx", pdfOfSize(2048), false, "Invalid file type. Allowed types: .pdf"},
		{"no extension", "report", pdfOfSize(2048), false, "Invalid file type. Allowed types: .pdf"},
		{"spoofed extension", "scan.pdf", png, false, "File content does not match its .pdf extension (detected image/png)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := validator.Validate(tt.filename, tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
