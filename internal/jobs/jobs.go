// Package jobs turns uploads into print-queue payloads and exposes the
// submission surface used by the HTTP layer.
package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"printd/internal/imaging"
	"printd/internal/printer"
	"printd/internal/printqueue"
)

// ErrNoFile is the submission error for a request without an image.
var ErrNoFile = errors.New("no file provided for print job")

// IsNoFile reports whether err indicates a missing upload.
func IsNoFile(err error) bool { return errors.Is(err, ErrNoFile) }

// Upload is one submitted image.
type Upload struct {
	Name string
	Data []byte
}

// Receipt is the value a successful print job resolves with.
type Receipt struct {
	Name    string `json:"name"`
	Printer string `json:"printer"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Producer builds print payloads: optimise the image, then print it.
type Producer struct {
	ctx     context.Context
	printer printer.Printer
	opts    imaging.Options
	log     zerolog.Logger
}

// NewProducer returns a Producer. ctx bounds device I/O of every job it
// builds and is normally the process lifetime context.
func NewProducer(ctx context.Context, p printer.Printer, opts imaging.Options, log zerolog.Logger) *Producer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Producer{ctx: ctx, printer: p, opts: opts, log: log.With().Str("component", "jobs").Logger()}
}

// PrintJob returns the payload for u. The upload is captured by value.
func (p *Producer) PrintJob(u Upload) printqueue.Payload {
	return func() (any, error) {
		if len(u.Data) == 0 {
			return nil, ErrNoFile
		}
		p.log.Debug().Str("file", u.Name).Int("size", len(u.Data)).Msg("processing print job")

		img, err := imaging.Optimize(bytes.NewReader(u.Data), p.opts)
		if err != nil {
			return nil, fmt.Errorf("optimize %s: %w", u.Name, err)
		}
		if err := p.printer.Print(p.ctx, img); err != nil {
			return nil, fmt.Errorf("print %s on %s: %w", u.Name, p.printer.Name(), err)
		}

		b := img.Bounds()
		p.log.Debug().Str("file", u.Name).Msg("print job completed")
		return Receipt{Name: u.Name, Printer: p.printer.Name(), Width: b.Dx(), Height: b.Dy()}, nil
	}
}
