package viz

import (
	"math"
	"sort"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/geom"
)

// Camera manages 3D projection to the 2D canvas plane.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p geom.Vec3) geom.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to canvas sub-pixel coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p geom.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End geom.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e geom.Vec3) {
	w.Edges = append(w.Edges, Edge{s, e})
}

// SphereWireframe builds latitude rings and meridians of a sphere of the
// given radius, approximated by short segments.
func SphereWireframe(radius float64, rings, meridians, segments int) *Wireframe {
	w := NewWireframe()

	onSphere := func(theta, phi float64) geom.Vec3 {
		return geom.Vec3{
			X: radius * math.Sin(phi) * math.Cos(theta),
			Y: radius * math.Cos(phi),
			Z: radius * math.Sin(phi) * math.Sin(theta),
		}
	}

	for r := 1; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings+1)
		for s := 0; s < segments; s++ {
			t0 := 2 * math.Pi * float64(s) / float64(segments)
			t1 := 2 * math.Pi * float64(s+1) / float64(segments)
			w.AddEdge(onSphere(t0, phi), onSphere(t1, phi))
		}
	}

	for m := 0; m < meridians; m++ {
		theta := 2 * math.Pi * float64(m) / float64(meridians)
		for s := 0; s < segments; s++ {
			p0 := math.Pi * float64(s) / float64(segments)
			p1 := math.Pi * float64(s+1) / float64(segments)
			w.AddEdge(onSphere(theta, p0), onSphere(theta, p1))
		}
	}

	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// RenderWireframe draws the wireframe to the canvas back to front.
func RenderWireframe(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}

	sw, sh := c.Width*2, c.Height*4
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}

	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// RenderPoints draws each point as a blob so charges stand out from the
// sphere wireframe.
func RenderPoints(c *Canvas, points []geom.Vec3, cam *Camera) {
	if c == nil || cam == nil {
		return
	}

	sw, sh := c.Width*2, c.Height*4
	for _, p := range points {
		if x, y, _, ok := cam.Project(p, sw, sh); ok {
			c.Blob(x, y)
		}
	}
}
