package viz

import (
	"math"
	"strings"

	"github.com/san-kum/uavsizer/internal/geometry"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps a world rectangle onto the canvas with equal scale on
// both axes. World y grows upwards on screen.
type Viewport struct {
	c             *Canvas
	x0, y0, scale float64
	offX, offY    float64
}

func (c *Canvas) Fit(minX, minY, maxX, maxY float64) *Viewport {
	pw, ph := float64(c.Width*2-1), float64(c.Height*4-1)
	w, h := math.Max(maxX-minX, 1e-9), math.Max(maxY-minY, 1e-9)
	scale := math.Min(pw/w, ph/h)
	return &Viewport{
		c:     c,
		x0:    minX,
		y0:    minY,
		scale: scale,
		offX:  (pw - w*scale) / 2,
		offY:  (ph - h*scale) / 2,
	}
}

func (v *Viewport) pixel(x, y float64) (int, int) {
	px := v.offX + (x-v.x0)*v.scale
	py := float64(v.c.Height*4-1) - v.offY - (y-v.y0)*v.scale
	return int(math.Round(px)), int(math.Round(py))
}

// Polyline joins consecutive world points.
func (v *Viewport) Polyline(pts ...geometry.Point2) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := v.pixel(pts[i-1].X, pts[i-1].Y)
		x1, y1 := v.pixel(pts[i].X, pts[i].Y)
		v.c.DrawLine(x0, y0, x1, y1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
