package printer

import (
	"context"
	"fmt"
	"image"
	"net"
	"strconv"
	"time"
)

const (
	defaultRawPort = 9100
	defaultTimeout = 10 * time.Second
)

// rawConn sends a complete program to a raw TCP print port. A connection is
// opened per job; the printer sees one job at a time anyway.
type rawConn struct {
	address string
	timeout time.Duration
}

func newRawConn(address string, timeout time.Duration) rawConn {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if _, _, err := net.SplitHostPort(address); err != nil && address != "" {
		address = net.JoinHostPort(address, strconv.Itoa(defaultRawPort))
	}
	return rawConn{address: address, timeout: timeout}
}

func (c rawConn) send(ctx context.Context, program []byte) error {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(program); err != nil {
		return fmt.Errorf("%w: write: %v", ErrConnectionFailed, err)
	}
	return nil
}

// packRows packs img into 1bpp rows, MSB first, each row padded to a whole
// byte. A set bit marks a black pixel; invert flips that for devices where
// 0 means print.
func packRows(img *image.Gray, invert bool) (widthBytes int, data []byte) {
	b := img.Bounds()
	widthBytes = (b.Dx() + 7) / 8
	data = make([]byte, widthBytes*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := data[y*widthBytes : (y+1)*widthBytes]
		for x := 0; x < b.Dx(); x++ {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y < 0x80 {
				row[x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	if invert {
		for i := range data {
			data[i] = ^data[i]
		}
	}
	return widthBytes, data
}
