package images

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
)

const (
	DefaultQuality = 85

	DefaultMaxWidth  = 1920
	DefaultMaxHeight = 1080
)

// Pipeline persists extracted image blobs under a storage directory and hands
// out the public reference paths embedded into returned markdown.
type Pipeline struct {
	dir    string
	prefix string

	quality int
}

func New(dir, prefix string) (*Pipeline, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Pipeline{
		dir:    dir,
		prefix: prefix,

		quality: DefaultQuality,
	}, nil
}

// Save decodes and persists one raw image blob. The filename carries a short
// content hash so identical re-extractions collide instead of piling up.
// Images with transparency are flattened onto white before JPEG encoding.
func (p *Pipeline) Save(documentID string, index int, data []byte, format string) (string, error) {
	format = strings.ToLower(format)

	if format == "" {
		format = "png"
	}

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])[:8]

	filename := fmt.Sprintf("%s_%d_%s.%s", documentID, index, hash, format)

	img, _, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return "", fmt.Errorf("decode image %d: %w", index, err)
	}

	if isJPEG(format) {
		img = flatten(img)
	}

	file, err := os.Create(filepath.Join(p.dir, filename))

	if err != nil {
		return "", err
	}

	defer file.Close()

	if err := p.encode(file, img, format); err != nil {
		return "", err
	}

	return path.Join(p.prefix, filename), nil
}

// Optimize downscales a persisted image to fit the given bounds, preserving
// aspect ratio, and re-encodes at the quality factor. Images already within
// bounds are left untouched.
func (p *Pipeline) Optimize(filename string, maxWidth, maxHeight, quality int) error {
	img, format, err := p.load(filename)

	if err != nil {
		return err
	}

	bounds := img.Bounds()

	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return nil
	}

	scaled := scale(img, maxWidth, maxHeight)

	file, err := os.Create(filepath.Join(p.dir, filename))

	if err != nil {
		return err
	}

	defer file.Close()

	if isJPEG(format) && quality > 0 {
		return jpeg.Encode(file, scaled, &jpeg.Options{Quality: quality})
	}

	return p.encode(file, scaled, format)
}

// Thumbnail derives a small fixed-size preview next to the original, named by
// prefixing the original filename.
func (p *Pipeline) Thumbnail(filename string, width, height int) (string, error) {
	img, format, err := p.load(filename)

	if err != nil {
		return "", err
	}

	thumb := scale(img, width, height)
	name := "thumb_" + filename

	file, err := os.Create(filepath.Join(p.dir, name))

	if err != nil {
		return "", err
	}

	defer file.Close()

	if err := p.encode(file, thumb, format); err != nil {
		return "", err
	}

	return path.Join(p.prefix, name), nil
}

func (p *Pipeline) load(filename string) (image.Image, string, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, filename))

	if err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return nil, "", err
	}

	return img, format, nil
}

func (p *Pipeline) encode(file *os.File, img image.Image, format string) error {
	if isJPEG(format) {
		return jpeg.Encode(file, img, &jpeg.Options{Quality: p.quality})
	}

	return png.Encode(file, img)
}

// scale fits img into width x height, never upscaling.
func scale(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()

	ratio := min(float64(width)/float64(bounds.Dx()), float64(height)/float64(bounds.Dy()))

	if ratio >= 1 {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(bounds.Dx())*ratio), int(float64(bounds.Dy())*ratio)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return dst
}

// flatten composites transparency onto a white background.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}

	dst := image.NewRGBA(img.Bounds())

	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)

	return dst
}

func isJPEG(format string) bool {
	return format == "jpg" || format == "jpeg"
}
