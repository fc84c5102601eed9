// Package pdftext implements the parse.TextSource contract on top of a pure
// Go PDF reader. It maps the reader's failures onto the parser's typed
// sentinels so load classification stays out of the message-sniffing path.
package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"bookparse/internal/parse"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) PageTexts(ctx context.Context, path string, maxPages int) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, classify(err)
	}
	defer f.Close()

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			// one undecodable page should not sink the document
			log.Debug().Str("path", path).Int("page", i).Err(err).Msg("page text extraction failed")
			continue
		}
		pages = append(pages, txt)
	}
	return pages, nil
}

// classify wraps reader errors with the parser's sentinels. The reader only
// surfaces strings, so this is the one place keyword matching is allowed.
func classify(err error) error {
	low := strings.ToLower(err.Error())
	switch {
	case strings.Contains(low, "encrypt"), strings.Contains(low, "password"), strings.Contains(low, "decrypt"):
		return fmt.Errorf("%w: %v", parse.ErrEncrypted, err)
	case strings.Contains(low, "invalid"), strings.Contains(low, "corrupt"), strings.Contains(low, "malformed"):
		return fmt.Errorf("%w: %v", parse.ErrMalformed, err)
	}
	return err
}
