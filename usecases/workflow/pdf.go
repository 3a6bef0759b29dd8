package workflow

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ledongthuc/pdf"
)

var ErrNoExtractableText = errors.New("no extractable text")

// ExtractPdfMarkdown extracts the text of a PDF as markdown, one "## Page N" section per page.
// Malformed files can make the pdf reader panic, which is reported as an error.
func ExtractPdfMarkdown(content []byte) (markdown string, err error) {
	defer func() {
		if r := recover(); r != nil {
			markdown = ""
			err = errors.Newf("could not read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrap(err, "could not open pdf")
	}

	var sections []string
	hasText := false
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrapf(err, "could not extract text of page %d", i)
		}
		text = strings.TrimSpace(text)
		if text != "" {
			hasText = true
		}
		sections = append(sections, fmt.Sprintf("## Page %d\n\n%s", i, text))
	}

	if !hasText {
		return "", ErrNoExtractableText
	}
	return strings.Join(sections, "\n\n"), nil
}
