package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()

	dir := t.TempDir()

	pipeline, err := New(dir, "/uploads/images")
	require.NoError(t, err)

	return pipeline, dir
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

func TestSaveFilenamePattern(t *testing.T) {
	pipeline, dir := newPipeline(t)

	data := encodePNG(t, solidImage(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255}))

	ref, err := pipeline.Save("doc-1", 1, data, "png")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^/uploads/images/doc-1_1_[0-9a-f]{8}\.png$`)
	require.Regexp(t, pattern, ref)

	_, err = os.Stat(filepath.Join(dir, path.Base(ref)))
	require.NoError(t, err)
}

func TestSaveIdenticalDataCollides(t *testing.T) {
	pipeline, dir := newPipeline(t)

	data := encodePNG(t, solidImage(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255}))

	first, err := pipeline.Save("doc-1", 1, data, "png")
	require.NoError(t, err)

	second, err := pipeline.Save("doc-1", 1, data, "png")
	require.NoError(t, err)

	require.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSaveDefaultsToPNG(t *testing.T) {
	pipeline, _ := newPipeline(t)

	data := encodePNG(t, solidImage(4, 4, color.RGBA{A: 255}))

	ref, err := pipeline.Save("doc-1", 2, data, "")
	require.NoError(t, err)
	require.Equal(t, ".png", path.Ext(ref))
}

func TestSaveRejectsGarbage(t *testing.T) {
	pipeline, _ := newPipeline(t)

	_, err := pipeline.Save("doc-1", 1, []byte("not an image"), "png")
	require.Error(t, err)
}

func TestSaveFlattensTransparencyForJPEG(t *testing.T) {
	pipeline, dir := newPipeline(t)

	transparent := image.NewRGBA(image.Rect(0, 0, 4, 4))
	data := encodePNG(t, transparent)

	ref, err := pipeline.Save("doc-1", 1, data, "jpeg")
	require.NoError(t, err)

	file, err := os.Open(filepath.Join(dir, path.Base(ref)))
	require.NoError(t, err)
	defer file.Close()

	img, err := jpeg.Decode(file)
	require.NoError(t, err)

	r, g, b, _ := img.At(1, 1).RGBA()
	require.Greater(t, r, uint32(0xf000))
	require.Greater(t, g, uint32(0xf000))
	require.Greater(t, b, uint32(0xf000))
}

func TestOptimizeSkipsSmallImages(t *testing.T) {
	pipeline, dir := newPipeline(t)

	data := encodePNG(t, solidImage(100, 100, color.RGBA{R: 50, A: 255}))

	ref, err := pipeline.Save("doc-1", 1, data, "png")
	require.NoError(t, err)

	name := path.Base(ref)

	before, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)

	require.NoError(t, pipeline.Optimize(name, DefaultMaxWidth, DefaultMaxHeight, DefaultQuality))

	after, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	require.Equal(t, before.Size(), after.Size())
}

func TestOptimizeDownscales(t *testing.T) {
	pipeline, dir := newPipeline(t)

	data := encodePNG(t, solidImage(400, 100, color.RGBA{G: 80, A: 255}))

	ref, err := pipeline.Save("doc-1", 1, data, "png")
	require.NoError(t, err)

	name := path.Base(ref)

	require.NoError(t, pipeline.Optimize(name, 200, 200, DefaultQuality))

	file, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer file.Close()

	img, _, err := image.Decode(file)
	require.NoError(t, err)

	require.Equal(t, 200, img.Bounds().Dx())
	require.Equal(t, 50, img.Bounds().Dy())
}

func TestThumbnail(t *testing.T) {
	pipeline, dir := newPipeline(t)

	data := encodePNG(t, solidImage(400, 400, color.RGBA{B: 120, A: 255}))

	ref, err := pipeline.Save("doc-1", 1, data, "png")
	require.NoError(t, err)

	name := path.Base(ref)

	thumb, err := pipeline.Thumbnail(name, 200, 200)
	require.NoError(t, err)
	require.Equal(t, "/uploads/images/thumb_"+name, thumb)

	file, err := os.Open(filepath.Join(dir, "thumb_"+name))
	require.NoError(t, err)
	defer file.Close()

	img, _, err := image.Decode(file)
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())

	// Original is untouched.
	original, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer original.Close()

	full, _, err := image.Decode(original)
	require.NoError(t, err)
	require.Equal(t, 400, full.Bounds().Dx())
}

func TestThumbnailMissingFile(t *testing.T) {
	pipeline, _ := newPipeline(t)

	_, err := pipeline.Thumbnail("nope.png", 200, 200)
	require.Error(t, err)
}
