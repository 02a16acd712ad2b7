package scene

import (
	"math"
	"testing"
)

func TestSkyboxElementsInRange(t *testing.T) {
	if len(SkyboxElements) != 12 {
		t.Fatalf("got %d triangles, want 12", len(SkyboxElements))
	}
	for i, tri := range SkyboxElements {
		face := i / 2
		for _, idx := range tri {
			if idx > 23 {
				t.Errorf("triangle %d references %d", i, idx)
			}
			if int(idx)/4 != face {
				t.Errorf("triangle %d of face %v references vertex %d of another face", i, Face(face), idx)
			}
		}
	}
	if got := len(SkyboxIndices()); got != 36 {
		t.Errorf("SkyboxIndices has %d entries, want 36", got)
	}
}

func TestSkyboxUVQuadsAreNonDegenerate(t *testing.T) {
	for f := Face(0); f < NumFaces; f++ {
		t.Run(f.String(), func(t *testing.T) {
			quad := SkyboxUVs[4*f : 4*f+4]
			for i := 0; i < 4; i++ {
				for j := i + 1; j < 4; j++ {
					if quad[i] == quad[j] {
						t.Errorf("corners %d and %d coincide at %v", i, j, quad[i])
					}
				}
			}
			for i := 0; i < 4; i++ {
				a, b, c := quad[i], quad[(i+1)%4], quad[(i+2)%4]
				cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
				if math.Abs(float64(cross)) < 1e-6 {
					t.Errorf("corners %d..%d are collinear", i, i+2)
				}
			}
		})
	}
}

func TestSkyboxUVsStayInFaceCell(t *testing.T) {
	const eps = 1e-6
	for f := Face(0); f < NumFaces; f++ {
		col, row := FaceCell(f)
		u0, v0 := float64(col)/AtlasColumns, float64(row)/AtlasRows
		u1, v1 := float64(col+1)/AtlasColumns, float64(row+1)/AtlasRows
		for i := 4 * int(f); i < 4*int(f)+4; i++ {
			u, v := float64(SkyboxUVs[i][0]), float64(SkyboxUVs[i][1])
			if u < u0-eps || u > u1+eps || v < v0-eps || v > v1+eps {
				t.Errorf("%v vertex %d uv (%v, %v) outside cell (%d, %d)", f, i, u, v, col, row)
			}
		}
	}
}

func TestSkyboxFacesArePlanar(t *testing.T) {
	for f := Face(0); f < NumFaces; f++ {
		quad := SkyboxPositions[4*f : 4*f+4]
		planar := false
		for axis := 0; axis < 3; axis++ {
			same := true
			for _, p := range quad[1:] {
				if p[axis] != quad[0][axis] {
					same = false
				}
			}
			if same && math.Abs(float64(quad[0][axis])) == 0.5 {
				planar = true
			}
		}
		if !planar {
			t.Errorf("%v is not an axis-aligned cube face: %v", f, quad)
		}
	}
}

func TestFaceCellsAreDistinct(t *testing.T) {
	seen := map[[2]int]Face{}
	for f := Face(0); f < NumFaces; f++ {
		col, row := FaceCell(f)
		if col < 0 || col >= AtlasColumns || row < 0 || row >= AtlasRows {
			t.Errorf("%v cell (%d, %d) outside atlas", f, col, row)
		}
		if other, ok := seen[[2]int{col, row}]; ok {
			t.Errorf("%v shares cell with %v", f, other)
		}
		seen[[2]int{col, row}] = f
	}
}

func TestFaceString(t *testing.T) {
	if FaceBack.String() != "back" {
		t.Errorf("FaceBack = %q", FaceBack.String())
	}
	if Face(9).String() != "Face(9)" {
		t.Errorf("out of range face = %q", Face(9).String())
	}
}
