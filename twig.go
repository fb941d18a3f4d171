package twig

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector. Rotation tweens use it for Euler angles in degrees.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec2) add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec3) add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Magnitude returns the length of v.
func (v Vec3) Magnitude() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// clampMagnitude shortens v to at most max while keeping its direction.
func (v Vec3) clampMagnitude(max float64) Vec3 {
	m := v.Magnitude()
	if m <= max || m == 0 {
		return v
	}
	return v.scale(max / m)
}

func (c Color) add(o Color) Color     { return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A} }
func (c Color) sub(o Color) Color     { return Color{c.R - o.R, c.G - o.G, c.B - o.B, c.A - o.A} }
func (c Color) scale(s float64) Color { return Color{c.R * s, c.G * s, c.B * s, c.A * s} }

// Disposable is implemented by tween targets that can be destroyed while a
// tween still references them. A disposed target fails the tween on its next
// startup or write and the tween is killed.
type Disposable interface {
	IsDisposed() bool
}

// TweenType distinguishes the two kinds of Tween.
type TweenType uint8

const (
	TweenTypeTweener  TweenType = iota // drives one value through a getter/setter pair
	TweenTypeSequence                  // timeline of tweens, intervals and callbacks
)

// LoopType selects how a tween behaves when it starts a new loop cycle.
type LoopType uint8

const (
	LoopRestart     LoopType = iota // each loop restarts from the start value
	LoopYoyo                        // each loop reverses direction
	LoopIncremental                 // each loop continues from the previous end value
)

// UpdateType selects the update channel a tween is advanced on.
type UpdateType uint8

const (
	UpdateNormal UpdateType = iota // advanced by Manager.Update
	UpdateLate                     // advanced by Manager.LateUpdate
	UpdateFixed                    // advanced by Manager.FixedUpdate
	UpdateManual                   // advanced by Manager.ManualUpdate
)

const updateTypeCount = 4

// AutoPlay selects which newly created tweens start playing immediately.
type AutoPlay uint8

const (
	AutoPlayAll       AutoPlay = iota // tweeners and sequences
	AutoPlayNone                      // nothing plays until Play is called
	AutoPlayTweeners                  // only tweeners
	AutoPlaySequences                 // only sequences
)

// NestedFailure selects what a sequence does when one of its nested tweens
// fails (for example because its target was disposed).
type NestedFailure uint8

const (
	KillWholeSequence     NestedFailure = iota // the failure kills the whole sequence
	TryToPreserveSequence                      // only the broken child is removed
)

// AxisConstraint restricts vector and rotation tweens to a subset of axes.
// Values can be combined with bitwise OR (e.g. AxisX | AxisY).
type AxisConstraint uint8

const (
	AxisNone AxisConstraint = 0 // tween every axis
	AxisX    AxisConstraint = 1 << iota
	AxisY
	AxisZ
	AxisW
)

func (a AxisConstraint) has(axis AxisConstraint) bool {
	return a == AxisNone || a&axis != 0
}

// RotateMode selects how quaternion tweens interpret their Euler end value.
type RotateMode uint8

const (
	RotateFast           RotateMode = iota // shortest path, never beyond 360°
	RotateFastBeyond360                    // full rotation, may exceed 360°
	RotateWorldAxisAdd                     // adds the end value in world space
	RotateLocalAxisAdd                     // adds the end value in local space
)

// ColorSpace selects the space color tweens blend in.
type ColorSpace uint8

const (
	ColorSpaceRGB       ColorSpace = iota // per-channel sRGB interpolation (axis maskable)
	ColorSpaceLinearRGB                   // interpolation in linear RGB
	ColorSpaceLab                         // perceptual CIE L*a*b* blend
	ColorSpaceHcl                         // hue/chroma/luminance blend
	ColorSpaceLuv                         // CIE L*u*v* blend
)
