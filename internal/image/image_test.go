package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// synthNRGBA builds a w x h image whose color varies per pixel and whose
// alpha is produced by alphaAt.
func synthNRGBA(w, h int, alphaAt func(x, y int) uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(10 + x),
				G: uint8(20 + y),
				B: uint8(30 + x + y),
				A: alphaAt(x, y),
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func loadLayer(t *testing.T, img image.Image) *Layer {
	t.Helper()
	layer, err := FromImage(img)
	require.NoError(t, err)
	t.Cleanup(layer.Close)
	return layer
}

func TestLoad_SplitsBGRAndAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shark.png")
	src := synthNRGBA(8, 6, func(x, y int) uint8 { return uint8(x * 30) })
	writePNG(t, path, src)

	layer, err := Load(path)
	require.NoError(t, err)
	defer layer.Close()

	assert.Equal(t, path, layer.Path)
	assert.Equal(t, "png", layer.Format)
	assert.Equal(t, 8, layer.Width())
	assert.Equal(t, 6, layer.Height())
	assert.False(t, layer.Opaque)
	assert.Equal(t, gocv.MatTypeCV8UC3, layer.Color.Type())
	assert.Equal(t, gocv.MatTypeCV8UC1, layer.Alpha.Type())

	// Color planes are BGR and survive even where alpha is 0
	bgr := layer.Color.GetVecbAt(2, 0)
	assert.Equal(t, []uint8{32, 22, 10}, []uint8(bgr))
	assert.EqualValues(t, 0, layer.Alpha.GetUCharAt(2, 0))
	assert.EqualValues(t, 150, layer.Alpha.GetUCharAt(2, 5))
}

func TestLoad_SynthesizesOpaqueAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.png")
	rgb := image.NewRGBA(image.Rect(0, 0, 5, 5))
	for i := range rgb.Pix {
		rgb.Pix[i] = 255
	}
	writePNG(t, path, rgb)

	layer, err := Load(path)
	require.NoError(t, err)
	defer layer.Close()

	assert.True(t, layer.Opaque)
	assert.Equal(t, 25, gocv.CountNonZero(layer.Alpha))
	assert.EqualValues(t, 255, layer.Alpha.GetUCharAt(4, 4))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not a png"), 0o644))
	_, err = Load(corrupt)
	assert.ErrorContains(t, err, "failed to decode image")
}

func TestComposite_BlacksOutBackground(t *testing.T) {
	layer := loadLayer(t, synthNRGBA(10, 4, func(x, y int) uint8 { return 255 }))

	// Left half kept, right half cleared
	maskBytes := make([]byte, 10*4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			maskBytes[y*10+x] = 255
		}
	}
	wrapped, err := gocv.NewMatFromBytes(4, 10, gocv.MatTypeCV8UC1, maskBytes)
	require.NoError(t, err)
	mask := wrapped.Clone()
	wrapped.Close()
	defer mask.Close()

	out, err := Composite(layer.Color, mask)
	require.NoError(t, err)
	defer out.Close()

	require.Equal(t, gocv.MatTypeCV8UC4, out.Type())
	for y := 0; y < 4; y++ {
		for x := 0; x < 10; x++ {
			px := out.GetVecbAt(y, x)
			if x < 5 {
				src := layer.Color.GetVecbAt(y, x)
				assert.Equal(t, []uint8{src[0], src[1], src[2], 255}, []uint8(px), "kept pixel (%d,%d)", x, y)
			} else {
				assert.Equal(t, []uint8{0, 0, 0, 0}, []uint8(px), "cleared pixel (%d,%d)", x, y)
			}
		}
	}

	// Inputs are not modified
	assert.Equal(t, 10*4, gocv.CountNonZero(layer.Alpha))
	assert.NotZero(t, layer.Color.GetVecbAt(0, 9)[0])
}

func TestComposite_DimensionMismatch(t *testing.T) {
	layer := loadLayer(t, synthNRGBA(10, 4, func(x, y int) uint8 { return 255 }))
	mask := gocv.NewMatWithSize(5, 5, gocv.MatTypeCV8UC1)
	defer mask.Close()

	out, err := Composite(layer.Color, mask)
	defer out.Close()
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	out2, err := Composite(layer.Color, layer.Color)
	defer out2.Close()
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

// composite builds the BGRA matrix Composite produces for src with its own alpha.
func composite(t *testing.T, src image.Image) gocv.Mat {
	t.Helper()
	layer := loadLayer(t, src)
	out, err := Composite(layer.Color, layer.Alpha)
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })
	return out
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestSavePNG_RoundTrip(t *testing.T) {
	src := synthNRGBA(6, 3, func(x, y int) uint8 {
		if x%2 == 0 {
			return 255
		}
		return 0
	})
	path := filepath.Join(t.TempDir(), "shark.png")
	require.NoError(t, SavePNG(path, composite(t, src)))

	img, ok := decodePNG(t, path).(*image.NRGBA)
	require.True(t, ok, "expected NRGBA output")
	assert.Equal(t, src.Bounds(), img.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			got := img.NRGBAAt(x, y)
			if x%2 == 0 {
				assert.Equal(t, src.NRGBAAt(x, y), got)
			} else {
				assert.Equal(t, color.NRGBA{}, got)
			}
		}
	}
}

func TestSavePNG_OpaqueKeepsAlphaChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.png")
	require.NoError(t, SavePNG(path, composite(t, synthNRGBA(4, 4, func(x, y int) uint8 { return 255 }))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 26)
	require.Equal(t, "IHDR", string(data[12:16]))
	assert.EqualValues(t, 8, data[24], "bit depth")
	assert.EqualValues(t, 6, data[25], "color type must be truecolor with alpha")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBAModel, cfg.ColorModel)
}

func TestSavePNG_RejectsNonBGRA(t *testing.T) {
	layer := loadLayer(t, synthNRGBA(3, 3, func(x, y int) uint8 { return 255 }))
	path := filepath.Join(t.TempDir(), "shark.png")

	err := SavePNG(path, layer.Color)
	assert.ErrorContains(t, err, "expected 8-bit BGRA")
	assert.NoFileExists(t, path)
}

func TestSavePNG_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shark.png")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	src := synthNRGBA(4, 4, func(x, y int) uint8 { return 255 })
	require.NoError(t, SavePNG(path, composite(t, src)))
	assert.Equal(t, src.Bounds(), decodePNG(t, path).Bounds())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}

func TestSavePNG_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "shark.png")
	err := SavePNG(path, composite(t, synthNRGBA(2, 2, func(x, y int) uint8 { return 255 })))
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestLoad_SixteenBitIsNarrowedToEightBit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.png")
	src := image.NewNRGBA64(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetNRGBA64(x, y, color.NRGBA64{R: 0xAB00, G: 0x1200, B: 0xCD00, A: 0x8000})
		}
	}
	writePNG(t, path, src)

	layer, err := Load(path)
	require.NoError(t, err)
	defer layer.Close()

	assert.Equal(t, gocv.MatTypeCV8UC3, layer.Color.Type())
	assert.Equal(t, gocv.MatTypeCV8UC1, layer.Alpha.Type())
	assert.InDelta(t, 0x80, int(layer.Alpha.GetUCharAt(1, 2)), 1)
	assert.InDelta(t, 0xCD, int(layer.Color.GetVecbAt(1, 2)[0]), 1)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("a/b/shark.PNG"))
	assert.True(t, IsSupportedFormat("scan.tif"))
	assert.True(t, IsSupportedFormat("photo.webp"))
	assert.False(t, IsSupportedFormat("notes.txt"))
	assert.False(t, IsSupportedFormat("noext"))
}
