package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Format is an image file format
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatTGA  Format = "tga"
)

// Formats lists every supported format
var Formats = []Format{FormatPPM, FormatPNG, FormatWebP, FormatTGA}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatPPM:
		return "image/x-portable-pixmap"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatTGA:
		return "image/x-tga"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat converts a format name such as "png" or ".webp" to a Format
func ParseFormat(name string) (Format, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported image format %q", name)
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseFormat(ext)
}

// Encode writes the frame in the given format. width > 0 rescales raster
// formats; PPM always carries the exact rendered pixels.
func Encode(w io.Writer, frame *renderer.Frame, format Format, width int) error {
	if format == FormatPPM {
		return WritePPM(w, frame)
	}

	var img image.Image = frame.Image()
	if width > 0 && width != frame.Width {
		img = Resize(img, width)
	}
	return EncodeImage(w, img, format)
}

// EncodeImage writes an already quantized image. PPM is not accepted because it
// is defined over linear frame colors.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("cannot encode image as %q", format)
	}
	if err != nil {
		return fmt.Errorf("%s encode: %w", format, err)
	}
	return nil
}

// Save writes the frame to path, creating parent directories as needed
func Save(path string, frame *renderer.Frame, format Format, width int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Encode(f, frame, format, width); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
