package env

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const cellPixels = 24

var (
	lightCell   = color.RGBA{R: 0xEE, G: 0xDC, B: 0xB0, A: 0xFF}
	darkCell    = color.RGBA{R: 0xB5, G: 0x88, B: 0x5C, A: 0xFF}
	firstColor  = color.RGBA{R: 0xC0, G: 0x1C, B: 0x1C, A: 0xFF}
	secondColor = color.RGBA{A: 0xFF}
)

// Render draws the current position. "human" writes the board's text diagram
// to the configured writer and returns a nil image; "rgb_array" rasterizes
// the position into an RGBA image, one cell per board square, uppercase
// pieces in the first player's colour. Neither mode mutates any state.
func (e *Environment) Render(mode string) (image.Image, error) {
	switch mode {
	case "human":
		_, err := fmt.Fprintln(e.out, e.board.String())
		return nil, err
	case "rgb_array":
		return e.raster(), nil
	}
	return nil, errors.Errorf("unsupported render mode %q", mode)
}

// raster paints from the board's FEN-like fingerprint, which every variant
// exposes: the placement field holds one letter per piece, first rank first.
func (e *Environment) raster() *image.RGBA {
	rows, cols := e.board.Rows(), e.board.Cols()
	img := image.NewRGBA(image.Rect(0, 0, cols*cellPixels, rows*cellPixels))

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			shade := lightCell
			if (row+col)%2 == 1 {
				shade = darkCell
			}
			cell := image.Rect(col*cellPixels, row*cellPixels,
				(col+1)*cellPixels, (row+1)*cellPixels)
			fill(img, cell, shade)
		}
	}

	placement := e.board.Hash()
	if i := strings.IndexByte(placement, ' '); i >= 0 {
		placement = placement[:i]
	}
	row := 0
	col := 0
	for i := 0; i < len(placement) && row < rows; i++ {
		ch := placement[i]
		switch {
		case ch == '/':
			row++
			col = 0
		case ch >= '0' && ch <= '9':
			col += int(ch - '0')
		default:
			drawGlyph(img, row, col, ch)
			col++
		}
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawGlyph(img *image.RGBA, row, col int, letter byte) {
	tint := secondColor
	if letter >= 'A' && letter <= 'Z' {
		tint = firstColor
	}
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(tint),
		Face: face,
		Dot: fixed.P(
			col*cellPixels+(cellPixels-face.Advance)/2,
			row*cellPixels+(cellPixels+face.Ascent)/2,
		),
	}
	d.DrawString(string(rune(letter)))
}
