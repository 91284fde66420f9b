package printer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"
)

// TSPLLabel describes the loaded label stock.
type TSPLLabel struct {
	WidthMM  float64
	HeightMM float64
	GapMM    float64
	DPI      int
}

// TSPL prints on TSPL/TSPL2 label printers using the BITMAP command.
type TSPL struct {
	conn  rawConn
	label TSPLLabel
}

func NewTSPL(address string, timeout time.Duration, label TSPLLabel) *TSPL {
	if label.DPI <= 0 {
		label.DPI = 203
	}
	return &TSPL{conn: newRawConn(address, timeout), label: label}
}

func (p *TSPL) Name() string { return DriverTSPL }

func (p *TSPL) Print(ctx context.Context, img *image.Gray) error {
	return p.conn.send(ctx, p.program(img))
}

func (p *TSPL) program(img *image.Gray) []byte {
	// TSPL bitmaps print 0 bits, so the raster is inverted.
	widthBytes, data := packRows(img, true)
	b := img.Bounds()

	var buf bytes.Buffer
	if p.label.WidthMM > 0 && p.label.HeightMM > 0 {
		fmt.Fprintf(&buf, "SIZE %.1f mm,%.1f mm\r\n", p.label.WidthMM, p.label.HeightMM)
	} else {
		fmt.Fprintf(&buf, "SIZE %d dot,%d dot\r\n", b.Dx(), b.Dy())
	}
	fmt.Fprintf(&buf, "GAP %.1f mm,0 mm\r\n", p.label.GapMM)
	buf.WriteString("CLS\r\n")
	fmt.Fprintf(&buf, "BITMAP %d,0,%d,%d,0,", p.offsetX(b.Dx()), widthBytes, b.Dy())
	buf.Write(data)
	buf.WriteString("\r\nPRINT 1\r\n")
	return buf.Bytes()
}

// offsetX centres an image of width dots on the label.
func (p *TSPL) offsetX(width int) int {
	if p.label.WidthMM <= 0 {
		return 0
	}
	if x := (mmToDots(p.label.WidthMM, p.label.DPI) - width) / 2; x > 0 {
		return x
	}
	return 0
}

// mmToDots converts millimetres to printer dots.
func mmToDots(mm float64, dpi int) int {
	return int(mm * float64(dpi) / 25.4)
}
