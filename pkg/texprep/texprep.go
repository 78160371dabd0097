// Package texprep converts normal maps between the y-up and y-down
// conventions and checks that they hold unit normals.
//
// A normal map channel c in [0, 255] encodes the component c/127.5 - 1.
package texprep

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// LoadImage decodes a PNG, JPEG, BMP or TIFF file into an NRGBA image.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texprep: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texprep: decode %s: %w", path, err)
	}
	if img, ok := src.(*image.NRGBA); ok {
		return img, nil
	}
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return img, nil
}

// SaveImage encodes img in the format named by path's extension.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texprep: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("unsupported image format %q", ext)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("texprep: encode %s: %w", path, err)
	}
	return nil
}

// FlipY negates the y component of every normal in img.
func FlipY(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			c.G = 255 - c.G
			img.SetNRGBA(x, y, c)
		}
	}
}

// FlipYNormalMap reads the normal map at in, negates its y components and
// writes the result to out. in and out may be the same file.
func FlipYNormalMap(in, out string) error {
	img, err := LoadImage(in)
	if err != nil {
		return err
	}
	FlipY(img)
	return SaveImage(out, img)
}

// unpack turns an encoded texel into a normal.
func unpack(c color.NRGBA) [3]float64 {
	return [3]float64{
		float64(c.R)/127.5 - 1,
		float64(c.G)/127.5 - 1,
		float64(c.B)/127.5 - 1,
	}
}

// Report summarizes the normals in a map.
type Report struct {
	Pixels     int
	MinLength  float64
	MaxLength  float64
	MeanLength float64
	// MeanDir is the normalized sum of all normals; a tangent-space map
	// points close to +z.
	MeanDir [3]float64
	// Bad counts normals whose length is off by more than Tolerance.
	Bad int
}

// Tolerance is how far from 1 a decoded normal's length may be.
const Tolerance = 0.05

func (r Report) String() string {
	return fmt.Sprintf("%d px, length %.3f..%.3f (mean %.3f), mean dir (%.3f, %.3f, %.3f), %d bad",
		r.Pixels, r.MinLength, r.MaxLength, r.MeanLength,
		r.MeanDir[0], r.MeanDir[1], r.MeanDir[2], r.Bad)
}

// Analyze measures the normals encoded in img.
func Analyze(img *image.NRGBA) Report {
	r := Report{MinLength: math.Inf(1), MaxLength: math.Inf(-1)}
	var sum [3]float64
	var lenSum float64
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := unpack(img.NRGBAAt(x, y))
			l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
			r.MinLength = math.Min(r.MinLength, l)
			r.MaxLength = math.Max(r.MaxLength, l)
			if math.Abs(l-1) > Tolerance {
				r.Bad++
			}
			lenSum += l
			for a := range sum {
				sum[a] += n[a]
			}
			r.Pixels++
		}
	}
	if r.Pixels == 0 {
		r.MinLength, r.MaxLength = 0, 0
		return r
	}
	r.MeanLength = lenSum / float64(r.Pixels)
	if l := math.Sqrt(sum[0]*sum[0] + sum[1]*sum[1] + sum[2]*sum[2]); l > 0 {
		for a := range sum {
			r.MeanDir[a] = sum[a] / l
		}
	}
	return r
}

// ValidateNormalMap analyzes the normal map at path. It returns an error
// when any normal is not close to unit length.
func ValidateNormalMap(path string) (Report, error) {
	img, err := LoadImage(path)
	if err != nil {
		return Report{}, err
	}
	r := Analyze(img)
	if r.Bad > 0 {
		return r, fmt.Errorf("texprep: %s: %d of %d normals are not unit length", path, r.Bad, r.Pixels)
	}
	return r, nil
}
