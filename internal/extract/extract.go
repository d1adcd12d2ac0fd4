// Package extract reads the plain text out of a source document. It is the
// collaborator that sits in front of the parser; extraction fidelity (spacing,
// line breaks) depends on the document and the underlying library.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// TextExtractor returns the concatenated text of every page, in page order.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

var extractors = map[string]TextExtractor{
	".pdf": &PDFExtractor{},
	".txt": &PlainTextExtractor{},
	".md":  &PlainTextExtractor{},
}

// ForPath picks an extractor from the file extension.
func ForPath(path string) (TextExtractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, fmt.Errorf("%w: file extension missing", ErrUnsupportedFormat)
	}
	e, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return e, nil
}

// Supported reports whether path has an extension ForPath can handle.
func Supported(path string) bool {
	_, err := ForPath(path)
	return err == nil
}

// File validates path, extracts its text and cleans it. A readable document with
// no text is not an error; the parser turns it into a fallback plan.
func File(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot open document %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("document %s is a directory", path)
	}

	e, err := ForPath(path)
	if err != nil {
		return "", err
	}
	text, err := e.ExtractText(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return Clean(text), nil
}

type PlainTextExtractor struct{}

func (PlainTextExtractor) ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var (
	pageBreakPattern = regexp.MustCompile(`---PAGE BREAK---`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes line endings and page separators. Line content is left alone
// so that keyword and option-line matching sees what the document says.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\ufeff", "")
	text = pageBreakPattern.ReplaceAllString(text, "\n")
	return blankRunPattern.ReplaceAllString(text, "\n\n")
}
