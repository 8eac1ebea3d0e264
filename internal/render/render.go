package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
)

// Page is one rasterized PDF page.
type Page struct {
	MIME string
	Data []byte
}

// PDFRenderer rasterizes PDF bytes into PNG page images via MuPDF.
type PDFRenderer struct{}

func New() *PDFRenderer { return &PDFRenderer{} }

// Pages renders up to maxPages pages of the given PDF at the requested DPI.
// Returned pages keep document order.
func (r *PDFRenderer) Pages(pdf []byte, maxPages, dpi int) ([]Page, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if n, err := api.PageCount(bytes.NewReader(pdf), nil); err == nil && n != total {
		// MuPDF and pdfcpu disagreeing usually means a damaged file; trust MuPDF,
		// it is the one doing the rendering.
		log.Warn().Int("mupdf", total).Int("pdfcpu", n).Msg("page count mismatch")
	}

	count := total
	if maxPages > 0 && count > maxPages {
		count = maxPages
	}

	pages := make([]Page, 0, count)
	for i := 0; i < count; i++ {
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		pages = append(pages, Page{MIME: "image/png", Data: buf.Bytes()})
	}

	log.Debug().Int("total_pages", total).Int("rendered", len(pages)).Int("dpi", dpi).Msg("rendered pdf pages")

	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf has no renderable pages")
	}
	return pages, nil
}
