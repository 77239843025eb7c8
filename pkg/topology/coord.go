package topology

import "math"

// Tolerance is the per-component absolute difference below which two
// coordinates compare equal.
const Tolerance = 1e-6

// Coordinate is a 3D point or vector.
type Coordinate struct {
	X, Y, Z float64
}

// NewCoordinate returns the coordinate (x, y, z).
func NewCoordinate(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z}
}

// At returns component i (0=X, 1=Y, 2=Z).
func (c Coordinate) At(i int) float64 {
	switch i {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.Z
	}
	panic("topology: coordinate component out of range")
}

// Set assigns component i (0=X, 1=Y, 2=Z).
func (c *Coordinate) Set(i int, v float64) {
	switch i {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	case 2:
		c.Z = v
	default:
		panic("topology: coordinate component out of range")
	}
}

// Array returns the components as an array.
func (c Coordinate) Array() [3]float64 {
	return [3]float64{c.X, c.Y, c.Z}
}

// Equal reports whether every component of c and o differs by less than
// Tolerance.
func (c Coordinate) Equal(o Coordinate) bool {
	return math.Abs(c.X-o.X) < Tolerance &&
		math.Abs(c.Y-o.Y) < Tolerance &&
		math.Abs(c.Z-o.Z) < Tolerance
}

func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

func (c Coordinate) Scale(k float64) Coordinate {
	return Coordinate{c.X * k, c.Y * k, c.Z * k}
}

func (c Coordinate) Div(k float64) Coordinate {
	return Coordinate{c.X / k, c.Y / k, c.Z / k}
}

func (c Coordinate) Dot(o Coordinate) float64 {
	return c.X*o.X + c.Y*o.Y + c.Z*o.Z
}

func (c Coordinate) Cross(o Coordinate) Coordinate {
	return Coordinate{
		c.Y*o.Z - c.Z*o.Y,
		c.Z*o.X - c.X*o.Z,
		c.X*o.Y - c.Y*o.X,
	}
}

// Min returns the component-wise minimum.
func (c Coordinate) Min(o Coordinate) Coordinate {
	return Coordinate{math.Min(c.X, o.X), math.Min(c.Y, o.Y), math.Min(c.Z, o.Z)}
}

// Max returns the component-wise maximum.
func (c Coordinate) Max(o Coordinate) Coordinate {
	return Coordinate{math.Max(c.X, o.X), math.Max(c.Y, o.Y), math.Max(c.Z, o.Z)}
}

// Dist returns the Euclidean distance between c and o.
func (c Coordinate) Dist(o Coordinate) float64 {
	return c.Sub(o).Len()
}

// Len returns the Euclidean length of c.
func (c Coordinate) Len() float64 {
	return math.Sqrt(c.Dot(c))
}

// Normalize scales c in place to unit length. A zero vector is left as is.
func (c *Coordinate) Normalize() {
	if l := c.Len(); l > 0 {
		*c = c.Div(l)
	}
}

// Normalized returns a unit-length copy of c.
func (c Coordinate) Normalized() Coordinate {
	c.Normalize()
	return c
}

// Mid returns the midpoint of c and o.
func (c Coordinate) Mid(o Coordinate) Coordinate {
	return c.Add(o).Div(2)
}
