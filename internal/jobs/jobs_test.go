package jobs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printd/internal/imaging"
	"printd/internal/printqueue"
)

// recordingPrinter keeps every page it was asked to print.
type recordingPrinter struct {
	mu    sync.Mutex
	pages []*image.Gray
	err   error
}

func (r *recordingPrinter) Name() string { return "recording" }

func (r *recordingPrinter) Print(ctx context.Context, img *image.Gray) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.pages = append(r.pages, img)
	r.mu.Unlock()
	return nil
}

func (r *recordingPrinter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPrintJob_OptimizesAndPrints(t *testing.T) {
	rp := &recordingPrinter{}
	p := NewProducer(context.Background(), rp, imaging.Options{}, zerolog.Nop())

	v, err := p.PrintJob(Upload{Name: "cat.png", Data: pngBytes(t, 768, 100)})()
	require.NoError(t, err)
	assert.Equal(t, Receipt{Name: "cat.png", Printer: "recording", Width: 384, Height: 50}, v)
	require.Equal(t, 1, rp.count())
	assert.Equal(t, uint8(0), rp.pages[0].GrayAt(0, 0).Y)
}

func TestPrintJob_Errors(t *testing.T) {
	rp := &recordingPrinter{}
	p := NewProducer(context.Background(), rp, imaging.Options{}, zerolog.Nop())

	_, err := p.PrintJob(Upload{Name: "empty"})()
	assert.True(t, IsNoFile(err))

	_, err = p.PrintJob(Upload{Name: "junk.txt", Data: []byte("hello")})()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "optimize junk.txt")

	rp.err = errors.New("out of paper")
	_, err = p.PrintJob(Upload{Name: "a.png", Data: pngBytes(t, 4, 4)})()
	assert.ErrorIs(t, err, rp.err)
	assert.Zero(t, rp.count())
}

func TestService_SubmitAndStatus(t *testing.T) {
	rp := &recordingPrinter{}
	q := printqueue.NewWithConfig(printqueue.Config{Cooldown: -1, StartPaused: true})
	svc := NewService(q, NewProducer(context.Background(), rp, imaging.Options{}, zerolog.Nop()))

	_, err := svc.Submit(Upload{Name: "none"})
	assert.True(t, IsNoFile(err))
	assert.Equal(t, 0, svc.Status().QueueLength)

	r1, err := svc.Submit(Upload{Name: "1.png", Data: pngBytes(t, 8, 8)})
	require.NoError(t, err)
	r2, err := svc.Submit(Upload{Name: "2.png", Data: pngBytes(t, 8, 8)})
	require.NoError(t, err)

	st := svc.Status()
	assert.Equal(t, 2, st.QueueLength)
	assert.False(t, st.IsPrinting)
	assert.True(t, st.Paused)

	svc.Resume()
	for _, r := range []*printqueue.Result{r1, r2} {
		_, err := r.Wait(waitCtx(t))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, rp.count())

	svc.Pause()
	assert.True(t, svc.Status().Paused)
}
