package printer

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"printd/internal/imaging"
)

// File writes every page as printed_<unix-millis>_.png into a spool
// directory. Useful without hardware and for keeping a copy of each page.
type File struct {
	dir string
	now func() time.Time
}

func NewFile(dir string) *File {
	if dir == "" {
		dir = "temp"
	}
	return &File{dir: dir, now: time.Now}
}

func (f *File) Name() string { return DriverFile }

func (f *File) Print(ctx context.Context, img *image.Gray) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("spool dir: %w", err)
	}
	name := filepath.Join(f.dir, fmt.Sprintf("printed_%d_.png", f.now().UnixMilli()))
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
