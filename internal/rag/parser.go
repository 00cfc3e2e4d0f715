package rag

import (
	"fmt"
	"io"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// DocumentParser 文档解析器接口（外部协作方的窄接口）
type DocumentParser interface {
	Parse(reader io.ReadSeeker) (string, error)
}

// PDFParser PDF文件解析器
type PDFParser struct{}

// NewPDFParser 创建PDF解析器
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse 逐页提取PDF文本
func (p *PDFParser) Parse(reader io.ReadSeeker) (string, error) {
	pdfReader, err := model.NewPdfReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf page count: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			continue
		}

		text, err := ex.ExtractText()
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
