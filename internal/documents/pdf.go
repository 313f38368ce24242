package documents

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// PDFOptions controls RenderPDF.
type PDFOptions struct {
	Font string
	// QRPayload, when set, is printed as a QR code in the top right corner.
	QRPayload string
}

// RenderPDF lays a generated text document out on A4 pages in a monospace font.
func RenderPDF(title, text string, opts PDFOptions) ([]byte, error) {
	font := opts.Font
	if font == "" {
		font = "Courier"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented names print.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if opts.QRPayload != "" {
		png, err := qrcode.Encode(opts.QRPayload, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode qr: %w", err)
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(png))
		pdf.ImageOptions("qr", 165, 10, 30, 30, false, imageOpts, 0, "")
	}

	pdf.SetFont(font, "B", 14)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(14)

	pdf.SetFont(font, "", 9)
	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(0, 4.5, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
