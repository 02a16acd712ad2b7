package scene

import (
	"fmt"
	"math/rand/v2"
	"unsafe"

	"github.com/EngoEngine/glm"
)

const (
	DefaultStarCount  = 10_000
	DefaultHalfExtent = 8
)

// Shape selects how star positions are sampled.
type Shape int

const (
	// ShapeCube samples uniformly inside the axis-aligned cube of the
	// given half-extent. This is what the demo has always done, even
	// though the generator was called "randsphere".
	ShapeCube Shape = iota
	// ShapeBall samples uniformly inside the ball of radius half-extent.
	ShapeBall
)

func (s Shape) String() string {
	switch s {
	case ShapeCube:
		return "cube"
	case ShapeBall:
		return "ball"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape maps a config name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "", "cube":
		return ShapeCube, nil
	case "ball", "sphere":
		return ShapeBall, nil
	}
	return ShapeCube, fmt.Errorf("scene: unknown starfield shape %q", name)
}

// Starfield is an immutable point cloud generated once at startup.
type Starfield struct {
	points []glm.Vec3
	bytes  []byte
}

// NewStarfield samples count points from rng.
func NewStarfield(rng *rand.Rand, count int, halfExtent float32, shape Shape) *Starfield {
	points := make([]glm.Vec3, count)
	for i := range points {
		points[i] = sample(rng, halfExtent, shape)
	}

	sf := &Starfield{points: points}
	if count > 0 {
		raw := unsafe.Slice((*byte)(unsafe.Pointer(&points[0])), count*int(unsafe.Sizeof(points[0])))
		sf.bytes = append([]byte(nil), raw...)
	}
	return sf
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return rng.Float32()*(hi-lo) + lo
}

func sample(rng *rand.Rand, size float32, shape Shape) glm.Vec3 {
	for {
		p := glm.Vec3{
			uniform(rng, -size, size),
			uniform(rng, -size, size),
			uniform(rng, -size, size),
		}
		if shape != ShapeBall || p[0]*p[0]+p[1]*p[1]+p[2]*p[2] <= size*size {
			return p
		}
	}
}

// Len is the number of stars.
func (s *Starfield) Len() int { return len(s.points) }

// At returns the i-th star position.
func (s *Starfield) At(i int) glm.Vec3 { return s.points[i] }

// Bytes is the packed xyz float32 attribute data. The same slice is
// returned for the lifetime of s; callers must not modify it.
func (s *Starfield) Bytes() []byte { return s.bytes }
