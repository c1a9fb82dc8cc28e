package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/ccview/pkg/metrics"
	"github.com/vanderheijden86/ccview/pkg/model"
)

// Snapshot formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrNothingToDraw is returned when a snapshot is requested for a scene with
// no nodes.
var ErrNothingToDraw = errors.New("graph has no nodes")

// SnapshotOptions controls offscreen rendering.
type SnapshotOptions struct {
	Format string  // "png" (default) or "svg"
	Scale  float64 // Output scale factor; <= 0 means 1.5
	Layout LayoutOptions
}

func (o SnapshotOptions) withDefaults() SnapshotOptions {
	o.Format = strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Scale <= 0 {
		o.Scale = 1.5
	}
	return o
}

const (
	framePad    = 30.0
	minFrameW   = 480.0
	minFrameH   = 360.0
	frameStep   = 150.0
	arrowLength = 10.0
)

// Colours follow the web client's stylesheet.
var (
	colorBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorNodeFill = color.RGBA{0xcf, 0xe0, 0xf7, 0xff}
	colorNodeLine = color.RGBA{0x6c, 0x75, 0x7d, 0xff}
	colorEdge     = color.RGBA{0x4c, 0x6e, 0xf5, 0xff}
	colorCycle    = color.RGBA{0xff, 0x6b, 0x6b, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorLabelBG  = color.RGBA{0xff, 0xff, 0xff, 0xd9}
)

// nodeRadius sizes a node by fragment length: shorter fragments are drawn
// larger.
func nodeRadius(layer int) float64 {
	switch layer {
	case 1:
		return 38
	case 2:
		return 35
	default:
		return 32
	}
}

func edgeColor(e Edge) color.RGBA {
	if e.Cycle {
		return colorCycle
	}
	return colorEdge
}

// placed is a scene fitted into a drawing frame.
type placed struct {
	scene  *Scene
	pos    []Point
	width  float64
	height float64
}

// frameFor sizes the drawing frame from the node count so dense graphs get
// more room.
func frameFor(nodes int) (float64, float64) {
	side := math.Ceil(math.Sqrt(float64(nodes)))
	w := math.Max(minFrameW, side*frameStep+2*framePad)
	h := math.Max(minFrameH, side*frameStep*0.75+2*framePad)
	return w, h
}

func place(scene *Scene, positions []Point) placed {
	w, h := frameFor(len(scene.Nodes))
	pad := framePad + nodeRadius(1)
	return placed{scene: scene, pos: Fit(positions, w, h, pad), width: w, height: h}
}

// RenderOffscreen lays out elements on a detached scene, waits for the layout
// to converge, and returns the snapshot as a data URI. Nothing is shared with
// any on-screen Engine.
func RenderOffscreen(ctx context.Context, elements []model.Element, opts SnapshotOptions) (string, error) {
	opts = opts.withDefaults()
	if opts.Format != FormatPNG && opts.Format != FormatSVG {
		return "", fmt.Errorf("unsupported format %q (want svg or png)", opts.Format)
	}

	scene := NewScene(elements)
	if scene.Empty() {
		return "", ErrNothingToDraw
	}

	lay := StartLayout(ctx, scene, opts.Layout)
	defer lay.Stop()
	if err := lay.Wait(ctx); err != nil {
		return "", fmt.Errorf("layout: %w", err)
	}
	positions, ok := lay.Positions()
	if !ok {
		return "", fmt.Errorf("layout did not produce positions")
	}

	defer metrics.Timer(metrics.Snapshot)()
	var buf bytes.Buffer
	p := place(scene, positions)
	switch opts.Format {
	case FormatSVG:
		if err := writeSVG(&buf, p, opts.Scale); err != nil {
			return "", err
		}
		return DataURI("image/svg+xml", buf.Bytes()), nil
	default:
		if err := writePNG(&buf, p, opts.Scale); err != nil {
			return "", err
		}
		return DataURI("image/png", buf.Bytes()), nil
	}
}

// DataURI encodes data as a base64 data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// --- geometry ----------------------------------------------------------------

// edgeEndpoints trims a straight edge so it starts and ends on the node
// circles rather than their centres.
func edgeEndpoints(from, to Point, rFrom, rTo float64) (Point, Point, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	d := math.Hypot(dx, dy)
	if d <= rFrom+rTo {
		return from, to, false
	}
	ux, uy := dx/d, dy/d
	return Point{from.X + ux*rFrom, from.Y + uy*rFrom}, Point{to.X - ux*rTo, to.Y - uy*rTo}, true
}

// arrowHead returns the three corners of an arrow whose tip sits at tip and
// points away from tail.
func arrowHead(tail, tip Point) [3]Point {
	ang := math.Atan2(tip.Y-tail.Y, tip.X-tail.X)
	spread := math.Pi / 7
	return [3]Point{
		tip,
		{tip.X - arrowLength*math.Cos(ang-spread), tip.Y - arrowLength*math.Sin(ang-spread)},
		{tip.X - arrowLength*math.Cos(ang+spread), tip.Y - arrowLength*math.Sin(ang+spread)},
	}
}

// --- PNG -----------------------------------------------------------------------

func writePNG(w io.Writer, p placed, scale float64) error {
	dc := gg.NewContext(int(math.Ceil(p.width*scale)), int(math.Ceil(p.height*scale)))
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.SetFontFace(basicfont.Face7x13)

	for _, e := range p.scene.Edges {
		drawEdge(dc, p, e)
	}
	for i, n := range p.scene.Nodes {
		drawNode(dc, p.pos[i], n)
	}
	return dc.EncodePNG(w)
}

func drawEdge(dc *gg.Context, p placed, e Edge) {
	from, to := p.pos[e.From], p.pos[e.To]
	rFrom := nodeRadius(p.scene.Nodes[e.From].Layer)
	rTo := nodeRadius(p.scene.Nodes[e.To].Layer)
	c := edgeColor(e)

	dc.SetColor(c)
	dc.SetLineWidth(2)
	if e.SelfLoop() {
		r := rFrom * 0.55
		dc.DrawCircle(from.X, from.Y-rFrom-r*0.6, r)
		dc.Stroke()
		drawEdgeLabel(dc, e.Label, Point{from.X, from.Y - rFrom - 2*r})
		return
	}

	start, end, ok := edgeEndpoints(from, to, rFrom, rTo)
	if !ok {
		return
	}
	dc.DrawLine(start.X, start.Y, end.X, end.Y)
	dc.Stroke()

	head := arrowHead(start, end)
	dc.NewSubPath()
	dc.MoveTo(head[0].X, head[0].Y)
	dc.LineTo(head[1].X, head[1].Y)
	dc.LineTo(head[2].X, head[2].Y)
	dc.ClosePath()
	dc.Fill()

	drawEdgeLabel(dc, e.Label, Point{(start.X + end.X) / 2, (start.Y+end.Y)/2 - 6})
}

func drawEdgeLabel(dc *gg.Context, label string, at Point) {
	if label == "" {
		return
	}
	w, h := dc.MeasureString(label)
	dc.SetColor(colorLabelBG)
	dc.DrawRoundedRectangle(at.X-w/2-3, at.Y-h/2-3, w+6, h+6, 3)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(label, at.X, at.Y, 0.5, 0.5)
}

func drawNode(dc *gg.Context, at Point, n Node) {
	r := nodeRadius(n.Layer)
	dc.SetColor(colorNodeFill)
	dc.DrawCircle(at.X, at.Y, r)
	dc.Fill()
	dc.SetColor(colorNodeLine)
	dc.SetLineWidth(1)
	dc.DrawCircle(at.X, at.Y, r)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(n.Label, at.X, at.Y, 0.5, 0.5)
}

// --- SVG -----------------------------------------------------------------------

func writeSVG(w io.Writer, p placed, scale float64) error {
	sc := func(v float64) int { return int(math.Round(v * scale)) }

	canvas := svg.New(w)
	canvas.Start(sc(p.width), sc(p.height))
	canvas.Rect(0, 0, sc(p.width), sc(p.height), fmt.Sprintf("fill:%s", css(colorBackdrop)))

	fontPx := sc(12)
	for _, e := range p.scene.Edges {
		from, to := p.pos[e.From], p.pos[e.To]
		rFrom := nodeRadius(p.scene.Nodes[e.From].Layer)
		rTo := nodeRadius(p.scene.Nodes[e.To].Layer)
		stroke := css(edgeColor(e))

		if e.SelfLoop() {
			r := rFrom * 0.55
			canvas.Circle(sc(from.X), sc(from.Y-rFrom-r*0.6), sc(r),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", stroke, sc(2)))
			svgLabel(canvas, e.Label, sc(from.X), sc(from.Y-rFrom-2*r), fontPx)
			continue
		}

		start, end, ok := edgeEndpoints(from, to, rFrom, rTo)
		if !ok {
			continue
		}
		canvas.Line(sc(start.X), sc(start.Y), sc(end.X), sc(end.Y),
			fmt.Sprintf("stroke:%s;stroke-width:%d", stroke, sc(2)))
		head := arrowHead(start, end)
		canvas.Polygon(
			[]int{sc(head[0].X), sc(head[1].X), sc(head[2].X)},
			[]int{sc(head[0].Y), sc(head[1].Y), sc(head[2].Y)},
			fmt.Sprintf("fill:%s", stroke),
		)
		svgLabel(canvas, e.Label, sc((start.X+end.X)/2), sc((start.Y+end.Y)/2-6), fontPx)
	}

	for i, n := range p.scene.Nodes {
		at := p.pos[i]
		canvas.Circle(sc(at.X), sc(at.Y), sc(nodeRadius(n.Layer)),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorNodeFill), css(colorNodeLine)))
		canvas.Text(sc(at.X), sc(at.Y)+fontPx/3, n.Label,
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:monospace;text-anchor:middle", css(colorText), fontPx+2))
	}

	canvas.End()
	return nil
}

func svgLabel(canvas *svg.SVG, label string, x, y, fontPx int) {
	if label == "" {
		return
	}
	canvas.Text(x, y, label,
		fmt.Sprintf("fill:%s;font-size:%dpx;font-family:monospace;text-anchor:middle;paint-order:stroke;stroke:#ffffff;stroke-width:3px",
			css(colorText), fontPx))
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Offscreen renders snapshots with fixed options. It is the renderer the
// report exporter uses.
type Offscreen struct {
	Options SnapshotOptions
}

// Render returns a data URI snapshot of elements.
func (o Offscreen) Render(ctx context.Context, elements []model.Element) (string, error) {
	return RenderOffscreen(ctx, elements, o.Options)
}
