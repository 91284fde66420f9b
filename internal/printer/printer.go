// Package printer holds the output drivers a print job can be sent to.
package printer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"
)

// Driver names accepted by New.
const (
	DriverFile      = "file"
	DriverESCPOS    = "escpos"
	DriverTSPL      = "tspl"
	DriverSimulated = "simulated"
)

var (
	ErrUnknownDriver    = errors.New("unknown printer driver")
	ErrConnectionFailed = errors.New("connection failed")
)

// Printer sends a black/white raster to a device.
type Printer interface {
	Print(ctx context.Context, img *image.Gray) error
	Name() string
}

// Options selects and configures a driver.
type Options struct {
	Driver   string
	Address  string
	Timeout  time.Duration
	SpoolDir string
	// Delay is the simulated print time. For the simulated driver it is the
	// whole job; for the others it is appended after the device write.
	Delay time.Duration
	// LabelWidthMM/LabelHeightMM/GapMM/DPI apply to the tspl driver.
	LabelWidthMM  float64
	LabelHeightMM float64
	GapMM         float64
	DPI           int
}

// New builds the printer named by opts.Driver.
func New(opts Options) (Printer, error) {
	var p Printer
	switch opts.Driver {
	case DriverFile, "":
		p = NewFile(opts.SpoolDir)
	case DriverESCPOS:
		p = NewESCPOS(opts.Address, opts.Timeout)
	case DriverTSPL:
		p = NewTSPL(opts.Address, opts.Timeout, TSPLLabel{WidthMM: opts.LabelWidthMM, HeightMM: opts.LabelHeightMM, GapMM: opts.GapMM, DPI: opts.DPI})
	case DriverSimulated:
		return Simulated{Delay: opts.Delay}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
	if opts.Delay > 0 {
		p = Settle(p, opts.Delay)
	}
	return p, nil
}

// Simulated pretends to print by waiting for Delay.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Name() string { return DriverSimulated }

func (s Simulated) Print(ctx context.Context, img *image.Gray) error {
	return sleepCtx(ctx, s.Delay)
}

type settle struct {
	Printer
	delay time.Duration
}

// Settle wraps p so every successful Print is followed by delay, modelling
// the time the mechanism needs to finish the page.
func Settle(p Printer, delay time.Duration) Printer {
	return settle{Printer: p, delay: delay}
}

func (s settle) Print(ctx context.Context, img *image.Gray) error {
	if err := s.Printer.Print(ctx, img); err != nil {
		return err
	}
	return sleepCtx(ctx, s.delay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
