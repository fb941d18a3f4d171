package twig

import "math"

// Quaternion is a rotation. Euler angles are in degrees and applied in Z, X,
// Y order (roll, then pitch, then yaw).
type Quaternion struct {
	X, Y, Z, W float64
}

// QuaternionIdentity is the rotation that does nothing.
var QuaternionIdentity = Quaternion{W: 1}

const (
	deg2Rad = math.Pi / 180
	rad2Deg = 180 / math.Pi
)

// QuaternionFromEuler returns the rotation for Euler angles in degrees.
func QuaternionFromEuler(e Vec3) Quaternion {
	sx, cx := math.Sincos(e.X * deg2Rad / 2)
	sy, cy := math.Sincos(e.Y * deg2Rad / 2)
	sz, cz := math.Sincos(e.Z * deg2Rad / 2)
	qx := Quaternion{X: sx, W: cx}
	qy := Quaternion{Y: sy, W: cy}
	qz := Quaternion{Z: sz, W: cz}
	return qy.Mul(qx).Mul(qz)
}

// Mul returns the Hamilton product q*o, the rotation that applies o first
// and q second.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Dot returns the 4D dot product. |Dot| is 1 for equal rotations.
func (q Quaternion) Dot(o Quaternion) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Euler returns the Euler angles of q in degrees, each in [0, 360).
func (q Quaternion) Euler() Vec3 {
	sinX := 2 * (q.W*q.X - q.Y*q.Z)
	var e Vec3
	if math.Abs(sinX) < 0.999999 {
		e.X = math.Asin(sinX)
		e.Y = math.Atan2(2*(q.X*q.Z+q.W*q.Y), 1-2*(q.X*q.X+q.Y*q.Y))
		e.Z = math.Atan2(2*(q.X*q.Y+q.W*q.Z), 1-2*(q.X*q.X+q.Z*q.Z))
	} else {
		// Gimbal lock: fold the roll into the yaw.
		e.X = math.Copysign(math.Pi/2, sinX)
		e.Y = math.Atan2(-2*(q.X*q.Z-q.W*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
	}
	return Vec3{wrapDegrees(e.X * rad2Deg), wrapDegrees(e.Y * rad2Deg), wrapDegrees(e.Z * rad2Deg)}
}

// wrapDegrees maps an angle to [0, 360).
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// deltaDegrees returns the shortest signed difference to - from, in
// [-180, 180].
func deltaDegrees(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// closestEuler picks between the two Euler triples describing the same
// rotation ((x, y, z) and (180-x, y+180, z+180)) the one nearer to ref.
func closestEuler(e, ref Vec3) Vec3 {
	alt := Vec3{wrapDegrees(180 - e.X), wrapDegrees(e.Y + 180), wrapDegrees(e.Z + 180)}
	if eulerDistance(alt, ref) < eulerDistance(e, ref) {
		return alt
	}
	return e
}

func eulerDistance(a, b Vec3) float64 {
	return math.Abs(deltaDegrees(a.X, b.X)) + math.Abs(deltaDegrees(a.Y, b.Y)) + math.Abs(deltaDegrees(a.Z, b.Z))
}
