package sink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/paint"
)

// captionHeight is the strip below the tiles that holds the band caption.
const captionHeight = 18

var (
	outlineColor = color.RGBA{0x20, 0x20, 0x20, 0xff}
	captionColor = color.RGBA{0x40, 0x40, 0x40, 0xff}
)

// RenderRaster draws one band of entries into an image without external
// tools. scale multiplies the SVG frame size, so WithSize(400) at scale 2
// yields an 800px wide image. The band caption sits in a strip below the
// tiles.
func RenderRaster(entries []lod.Entry, scale float64, opts ...SVGOption) (*image.RGBA, error) {
	r := newSVGRenderer(opts...)
	l, err := r.layout(entries)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}

	w := max(1, int(math.Ceil(l.width*scale)))
	h := max(1, int(math.Ceil(l.height*scale)))
	img := image.NewRGBA(image.Rect(0, 0, w, h+captionHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	var z vector.Rasterizer
	stroke := float32(r.strokeWidth() * scale)
	for _, t := range l.rects {
		x, y, tw, th := l.frame(t)
		x0, y0 := float32(x*scale), float32(y*scale)
		x1, y1 := x0+float32(tw*scale), y0+float32(th*scale)

		fill := tileColor(t.fill)
		if r.outline {
			fillRect(&z, img, x0, y0, x1, y1, outlineColor)
			x0, y0, x1, y1 = x0+stroke, y0+stroke, x1-stroke, y1-stroke
		}
		fillRect(&z, img, x0, y0, x1, y1, fill)
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, h+captionHeight-5),
	}
	d.DrawString(fmt.Sprintf("%s  band %d  threshold %g", layerName(l.entry), r.band, l.entry.Threshold))
	return img, nil
}

// fillRect paints the anti-aliased rectangle [x0,x1)x[y0,y1) over dst,
// rasterizing only its bounding box.
func fillRect(z *vector.Rasterizer, dst *image.RGBA, x0, y0, x1, y1 float32, c color.Color) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	box := image.Rect(
		int(math.Floor(float64(x0))), int(math.Floor(float64(y0))),
		int(math.Ceil(float64(x1))), int(math.Ceil(float64(y1))),
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	z.Reset(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(x0-ox, y0-oy)
	z.LineTo(x1-ox, y0-oy)
	z.LineTo(x1-ox, y1-oy)
	z.LineTo(x0-ox, y1-oy)
	z.ClosePath()
	z.Draw(dst, box, image.NewUniform(c), image.Point{})
}

func tileColor(hex string) color.Color {
	c, err := paint.ParseHex(hex)
	if err != nil {
		c, _ = paint.ParseHex(Unpainted)
	}
	return c
}
