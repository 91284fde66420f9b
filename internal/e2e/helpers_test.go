package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"printd/internal/httpapi"
	"printd/internal/imaging"
	"printd/internal/jobs"
	"printd/internal/printqueue"
)

// recordingPrinter remembers the width of every page it prints and flags
// overlapping calls.
type recordingPrinter struct {
	delay  time.Duration
	failAt int // 1-based call number that fails; 0 never fails

	active     atomic.Int32
	overlapped atomic.Bool

	mu     sync.Mutex
	calls  int
	widths []int
}

var errPaperJam = errors.New("paper jam")

func (p *recordingPrinter) Name() string { return "recording" }

func (p *recordingPrinter) Print(ctx context.Context, img *image.Gray) error {
	if p.active.Add(1) > 1 {
		p.overlapped.Store(true)
	}
	defer p.active.Add(-1)
	time.Sleep(p.delay)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls == p.failAt {
		return errPaperJam
	}
	p.widths = append(p.widths, img.Bounds().Dx())
	return nil
}

func (p *recordingPrinter) printed() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.widths...)
}

// newServer wires the real queue, producer and HTTP layer around prn.
func newServer(t *testing.T, prn *recordingPrinter, paused bool) (*httptest.Server, *printqueue.Queue) {
	t.Helper()
	q := printqueue.NewWithConfig(printqueue.Config{Cooldown: -1, StartPaused: paused})
	producer := jobs.NewProducer(context.Background(), prn, imaging.Options{}, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(jobs.NewService(q, producer)))
	t.Cleanup(srv.Close)
	return srv, q
}

// pngOfWidth returns a PNG w pixels wide; widths identify jobs in the printer log.
func pngOfWidth(t *testing.T, w int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, 8))
	for x := 0; x < w; x += 2 {
		img.SetGray(x, 0, color.Gray{Y: 0})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func postImage(t *testing.T, url string, data []byte) (*http.Response, []byte) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "page.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, &body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, req)
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("json: %v; body=%s", err, body)
	}
}

func waitIdle(t *testing.T, q *printqueue.Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := q.WaitIdle(ctx); err != nil {
		t.Fatalf("queue did not drain: %v", err)
	}
}
