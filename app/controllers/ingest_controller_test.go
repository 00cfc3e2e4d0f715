package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		maxMB       int64
		expected    string
	}{
		{
			name:        "pdf content type accepted",
			contentType: "application/pdf",
			size:        1024,
			maxMB:       10,
			expected:    "",
		},
		{
			name:        "non pdf content type rejected",
			contentType: "text/plain",
			size:        1024,
			maxMB:       10,
			expected:    "Only PDF files allowed",
		},
		{
			name:        "octet stream rejected despite pdf filename convention",
			contentType: "application/octet-stream",
			size:        1024,
			maxMB:       10,
			expected:    "Only PDF files allowed",
		},
		{
			name:        "missing content type rejected",
			contentType: "",
			size:        1024,
			maxMB:       10,
			expected:    "Only PDF files allowed",
		},
		{
			name:        "oversize rejected",
			contentType: "application/pdf",
			size:        11 * 1024 * 1024,
			maxMB:       10,
			expected:    "File too large (> 10 MB)",
		},
		{
			name:        "exactly at limit accepted",
			contentType: "application/pdf",
			size:        10 * 1024 * 1024,
			maxMB:       10,
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected,
				validateUpload(tt.contentType, tt.size, tt.maxMB))
		})
	}
}
