package printer

import (
	"bytes"
	"context"
	"image"
	"time"
)

// ESC/POS command bytes.
var (
	escInit        = []byte{0x1b, '@'}
	escFeedLines   = []byte{0x1b, 'd'}
	gsPartialCut   = []byte{0x1d, 'V', 0x42, 0x00}
	gsRasterNormal = []byte{0x1d, 'v', '0', 0x00}
)

// ESCPOS prints through the GS v 0 raster command, the common denominator
// of 58mm/80mm receipt printers.
type ESCPOS struct {
	conn rawConn
	feed byte
}

func NewESCPOS(address string, timeout time.Duration) *ESCPOS {
	return &ESCPOS{conn: newRawConn(address, timeout), feed: 4}
}

func (p *ESCPOS) Name() string { return DriverESCPOS }

func (p *ESCPOS) Print(ctx context.Context, img *image.Gray) error {
	return p.conn.send(ctx, p.program(img))
}

func (p *ESCPOS) program(img *image.Gray) []byte {
	widthBytes, data := packRows(img, false)
	h := img.Bounds().Dy()

	var buf bytes.Buffer
	buf.Write(escInit)
	buf.Write(gsRasterNormal)
	buf.Write([]byte{byte(widthBytes), byte(widthBytes >> 8), byte(h), byte(h >> 8)})
	buf.Write(data)
	buf.Write(escFeedLines)
	buf.WriteByte(p.feed)
	buf.Write(gsPartialCut)
	return buf.Bytes()
}
