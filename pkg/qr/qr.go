// Package qr renders identity tokens as QR codes and reads them back from captured frames.
package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	skipqr "github.com/skip2/go-qrcode"

	apperrors "equipment-access/pkg/errors"
)

type Renderer interface {
	// Render returns a PNG carrying token.
	Render(token string) ([]byte, error)
}

type Decoder interface {
	// Decode returns apperrors.ErrNoToken when img carries no readable code.
	Decode(ctx context.Context, img image.Image) (string, error)
}

type FrameSource interface {
	// NextFrame returns io.EOF once the source is exhausted.
	NextFrame(ctx context.Context) (image.Image, error)
}

type QRRenderer struct {
	Size  int
	Level skipqr.RecoveryLevel
}

func NewRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = 300
	}
	return &QRRenderer{Size: size, Level: skipqr.Medium}
}

func (r *QRRenderer) Render(token string) ([]byte, error) {
	if token == "" {
		return nil, apperrors.RequiredField("token")
	}
	png, err := skipqr.Encode(token, r.Level, r.Size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

type QRDecoder struct {
	reader gozxing.Reader
}

func NewDecoder() *QRDecoder {
	return &QRDecoder{reader: zxingqr.NewQRCodeReader()}
}

func (d *QRDecoder) Decode(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare frame: %w", err)
	}

	result, err := d.reader.Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	if err != nil {
		var readerErr gozxing.ReaderException
		if errors.As(err, &readerErr) {
			return "", apperrors.ErrNoToken
		}
		return "", fmt.Errorf("decode qr: %w", err)
	}
	return result.GetText(), nil
}

// FileFrameSource yields the images at paths in order.
type FileFrameSource struct {
	paths []string
	next  int
}

func NewFileFrameSource(paths ...string) *FileFrameSource {
	return &FileFrameSource{paths: paths}
}

func (s *FileFrameSource) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// Scan polls source every interval until a token is decoded or ctx ends.
// An exhausted source yields apperrors.ErrNoToken.
func Scan(ctx context.Context, source FrameSource, decoder Decoder, interval time.Duration) (string, error) {
	ticker := time.NewTicker(max(interval, time.Millisecond))
	defer ticker.Stop()

	for {
		frame, err := source.NextFrame(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return "", apperrors.ErrNoToken
		case err != nil:
			return "", err
		}

		token, err := decoder.Decode(ctx, frame)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, apperrors.ErrNoToken) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// StaticFrameSource yields already captured frames, e.g. an uploaded photo.
type StaticFrameSource struct {
	frames []image.Image
	next   int
}

func NewStaticFrameSource(frames ...image.Image) *StaticFrameSource {
	return &StaticFrameSource{frames: frames}
}

func (s *StaticFrameSource) NextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	s.next++
	return s.frames[s.next-1], nil
}
