// Package logo renders a placeholder logo for companies whose website had no
// usable one.
package logo

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	DefaultSize = 128
	gridCells   = 5
)

var (
	defaultPrimary   = color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	defaultSecondary = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ParseHexColor accepts #rgb and #rrggbb.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Render draws a symmetric 5x5 pattern derived from name in the brand colors.
// Unparseable colors fall back to the default palette.
func Render(name, primary, secondary string, size int) image.Image {
	if size <= 0 {
		size = DefaultSize
	}
	bg, err := ParseHexColor(primary)
	if err != nil {
		bg = defaultPrimary
	}
	fg, err := ParseHexColor(secondary)
	if err != nil || fg == bg {
		fg = defaultSecondary
	}

	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name))))
	grid := imaging.New(gridCells+2, gridCells+2, bg)
	cell := imaging.New(1, 1, fg)
	for row := 0; row < gridCells; row++ {
		for col := 0; col <= gridCells/2; col++ {
			if sum[row*3+col]%2 == 0 {
				continue
			}
			grid = imaging.Paste(grid, cell, image.Pt(col+1, row+1))
			grid = imaging.Paste(grid, cell, image.Pt(gridCells-col, row+1))
		}
	}
	return imaging.Resize(grid, size, size, imaging.NearestNeighbor)
}

// PNG renders the logo and encodes it.
func PNG(name, primary, secondary string, size int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Render(name, primary, secondary, size), imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return buf.Bytes(), nil
}
