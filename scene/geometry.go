package scene

import "fmt"

// The skybox atlas is a grid of AtlasColumns x AtlasRows cells; each cube
// face samples one cell and the remaining cells are unused.
const (
	AtlasColumns = 4
	AtlasRows    = 3
)

// Face identifies one side of the skybox cube.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceFront
	FaceBack
	FaceLeft
	FaceRight

	NumFaces = 6
)

var faceNames = [NumFaces]string{"top", "bottom", "front", "back", "left", "right"}

func (f Face) String() string {
	if f < 0 || int(f) >= NumFaces {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// faceCells is the atlas cell (column, row) each face samples.
var faceCells = [NumFaces][2]int{
	FaceTop:    {1, 0},
	FaceBottom: {1, 2},
	FaceFront:  {1, 1},
	FaceBack:   {3, 1},
	FaceLeft:   {0, 1},
	FaceRight:  {2, 1},
}

// FaceCell returns the atlas column and row sampled by f.
func FaceCell(f Face) (col, row int) {
	c := faceCells[f]
	return c[0], c[1]
}

// Vertices are not shared between faces so every face can carry its own
// UVs. Face f owns vertices [4f, 4f+4) and triangles [2f, 2f+2).
var SkyboxPositions = [NumFaces * 4][3]float32{
	// top
	{-0.5, +0.5, +0.5},
	{+0.5, +0.5, +0.5},
	{+0.5, +0.5, -0.5},
	{-0.5, +0.5, -0.5},
	// bottom
	{-0.5, -0.5, +0.5},
	{+0.5, -0.5, +0.5},
	{+0.5, -0.5, -0.5},
	{-0.5, -0.5, -0.5},
	// front
	{-0.5, +0.5, +0.5},
	{+0.5, +0.5, +0.5},
	{+0.5, -0.5, +0.5},
	{-0.5, -0.5, +0.5},
	// back
	{-0.5, +0.5, -0.5},
	{-0.5, -0.5, -0.5},
	{+0.5, -0.5, -0.5},
	{+0.5, +0.5, -0.5},
	// left
	{-0.5, +0.5, -0.5},
	{-0.5, +0.5, +0.5},
	{-0.5, -0.5, +0.5},
	{-0.5, -0.5, -0.5},
	// right
	{+0.5, +0.5, -0.5},
	{+0.5, -0.5, -0.5},
	{+0.5, -0.5, +0.5},
	{+0.5, +0.5, +0.5},
}

const (
	cellU = float32(1) / AtlasColumns
	cellV = float32(1) / AtlasRows
)

var SkyboxUVs = [NumFaces * 4][2]float32{
	{1 * cellU, 1 * cellV}, {2 * cellU, 1 * cellV}, {2 * cellU, 0 * cellV}, {1 * cellU, 0 * cellV}, // top
	{1 * cellU, 2 * cellV}, {2 * cellU, 2 * cellV}, {2 * cellU, 3 * cellV}, {1 * cellU, 3 * cellV}, // bottom
	{1 * cellU, 1 * cellV}, {2 * cellU, 1 * cellV}, {2 * cellU, 2 * cellV}, {1 * cellU, 2 * cellV}, // front
	{4 * cellU, 1 * cellV}, {4 * cellU, 2 * cellV}, {3 * cellU, 2 * cellV}, {3 * cellU, 1 * cellV}, // back
	{0 * cellU, 1 * cellV}, {1 * cellU, 1 * cellV}, {1 * cellU, 2 * cellV}, {0 * cellU, 2 * cellV}, // left
	{3 * cellU, 1 * cellV}, {3 * cellU, 2 * cellV}, {2 * cellU, 2 * cellV}, {2 * cellU, 1 * cellV}, // right
}

var SkyboxElements = [NumFaces * 2][3]uint16{
	{0, 1, 2}, {0, 2, 3}, // top
	{4, 5, 6}, {4, 6, 7}, // bottom
	{8, 9, 10}, {8, 10, 11}, // front
	{12, 13, 14}, {12, 14, 15}, // back
	{16, 17, 18}, {16, 18, 19}, // left
	{20, 21, 22}, {20, 22, 23}, // right
}

// SkyboxIndices flattens SkyboxElements into an index buffer.
func SkyboxIndices() []uint16 {
	out := make([]uint16, 0, len(SkyboxElements)*3)
	for _, tri := range SkyboxElements {
		out = append(out, tri[:]...)
	}
	return out
}
