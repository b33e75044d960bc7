// Package docx writes cover letter documents: ordered paragraphs of plain
// text runs on top of go-docx.
package docx

import (
	"bytes"
	"fmt"
	"io"
	"os"

	godocx "github.com/fumiama/go-docx"
)

// ContentType is the MIME type of a .docx file.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Paragraph is an ordered list of text runs. A newline inside a run becomes
// a line break.
type Paragraph struct {
	p *godocx.Paragraph
}

// AddRun appends text to the paragraph.
func (p *Paragraph) AddRun(text string) *Paragraph {
	p.p.AddText(text)
	return p
}

// Document is an in-memory document.
type Document struct {
	file *godocx.Docx
}

// New returns an empty document with the default styles and theme.
func New() *Document {
	return &Document{file: godocx.New().WithDefaultTheme()}
}

// AddParagraph appends a paragraph holding text. Empty text gives an empty
// paragraph that runs can be added to.
func (d *Document) AddParagraph(text string) *Paragraph {
	p := &Paragraph{p: d.file.AddParagraph()}
	if text != "" {
		p.AddRun(text)
	}
	return p
}

// Write encodes the document as a .docx archive.
func (d *Document) Write(w io.Writer) error {
	if _, err := d.file.WriteTo(w); err != nil {
		return fmt.Errorf("packing document: %w", err)
	}
	return nil
}

// Bytes returns the encoded document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Paragraphs reads the text of every paragraph of a .docx archive. Line
// breaks come back as newlines.
func Paragraphs(data []byte) ([]string, error) {
	file, err := godocx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var paragraphs []string
	for _, item := range file.Document.Body.Items {
		if p, ok := item.(*godocx.Paragraph); ok {
			paragraphs = append(paragraphs, p.String())
		}
	}
	return paragraphs, nil
}
