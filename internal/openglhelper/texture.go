package openglhelper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/go-gl/gl/v4.6-core/gl"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// WrapMode selects how texture coordinates outside [0, 1] are resolved
type WrapMode int32

const Repeat WrapMode = gl.REPEAT

// Texture is a 2D texture object with mipmaps
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// DecodeImage decodes a PNG, JPEG, BMP, TIFF or WebP image into RGBA8.
// With flip set the rows are reversed so the first row is the bottom of the
// image, matching OpenGL's texture origin.
func DecodeImage(r io.Reader, flip bool) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	if flip {
		flipRows(rgba)
	}
	return rgba, nil
}

func flipRows(img *image.RGBA) {
	height := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(height-1-y)*img.Stride : (height-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// LoadTexture reads an image file and uploads it as a mipmapped texture
func LoadTexture(path string, wrap WrapMode) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, err := DecodeImage(f, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewTexture(img, wrap), nil
}

// LoadTextureBytes decodes an in-memory image, such as one embedded in a
// binary glTF file, and uploads it
func LoadTextureBytes(data []byte, wrap WrapMode, flip bool) (*Texture, error) {
	img, err := DecodeImage(bytes.NewReader(data), flip)
	if err != nil {
		return nil, err
	}
	return NewTexture(img, wrap), nil
}

// NewTexture uploads RGBA pixels and generates mipmaps
func NewTexture(img *image.RGBA, wrap WrapMode) *Texture {
	width, height := img.Rect.Dx(), img.Rect.Dy()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, int32(wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, int32(wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	return &Texture{ID: id, Width: width, Height: height}
}

// SolidTexture creates a 1x1 texture of a single RGBA colour
func SolidTexture(r, g, b, a uint8) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []byte{r, g, b, a})
	return NewTexture(img, Repeat)
}

// Bind activates texture unit and binds the texture to it
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Delete releases the texture object
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.ID)
}
