package scene

import "math"

type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float64      { return math.Hypot(v.X, v.Y) }

type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) XY() Vec2             { return Vec2{v.X, v.Y} }

// Distance is the euclidean distance between two points.
func Distance(a, b Vec3) float64 { return a.Sub(b).Length() }

// Pointer is the normalized pointer position, both axes in [-1, 1].
// Y grows upward.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Range is a closed numeric interval.
type Range struct {
	Min, Max float64
}

// Lerp maps u in [0,1) onto the range.
func (r Range) Lerp(u float64) float64 { return r.Min + u*(r.Max-r.Min) }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Rect is an exclusion rectangle of width W and height H centered on the origin.
type Rect struct {
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Blocks reports whether a disc of radius r centered at (x, y) overlaps the
// rectangle grown by r on every side.
func (rc Rect) Blocks(x, y, r float64) bool {
	return math.Abs(x) < rc.W/2+r && math.Abs(y) < rc.H/2+r
}

// Band is the coarse depth class of an element.
type Band uint8

const (
	Background Band = iota
	Foreground
)

func (b Band) String() string {
	if b == Foreground {
		return "foreground"
	}
	return "background"
}

// Element is a placed sphere. All fields are fixed after placement; motion
// state is owned by the simulator and addressed by ID.
type Element struct {
	ID            int
	Band          Band
	Base          Vec3
	Radius        float64
	HueRange      Range
	Hue           float64 // degrees
	Saturation    float64 // percent
	Lightness     float64 // percent
	FloatSpeed    float64
	HueShiftSpeed float64
}

// Tick is one frame of the shared clock.
type Tick struct {
	Elapsed float64
	Delta   float64
}
