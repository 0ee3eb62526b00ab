package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/deadsy/sdfx/sdf"
)

// encodeBinary builds a binary STL byte stream for the given triangles.
func encodeBinary(tris []*sdf.Triangle3) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, binaryHeaderLen))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		// Facet normal, zeroed; the reader ignores it.
		binary.Write(&buf, binary.LittleEndian, [3]float32{})
		for v := 0; v < 3; v++ {
			binary.Write(&buf, binary.LittleEndian, [3]float32{
				float32(t[v].X), float32(t[v].Y), float32(t[v].Z),
			})
		}
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func sampleTriangles() []*sdf.Triangle3 {
	return []*sdf.Triangle3{
		{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		{
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0.5},
		},
	}
}

func assertTrianglesEqual(t *testing.T, got, want []*sdf.Triangle3) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("triangle count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		for v := 0; v < 3; v++ {
			if got[i][v].Sub(want[i][v]).Length() > 1e-6 {
				t.Errorf("triangle %d vertex %d = %v, want %v", i, v, got[i][v], want[i][v])
			}
		}
	}
}

func TestDecodeBinary(t *testing.T) {
	want := sampleTriangles()
	got, err := Decode(encodeBinary(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertTrianglesEqual(t, got, want)
}

func TestDecodeBinaryEmpty(t *testing.T) {
	got, err := Decode(encodeBinary(nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("triangles = %d, want 0", len(got))
	}
}

func TestDecodeASCII(t *testing.T) {
	src := `solid sample
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0.5
    endloop
  endfacet
endsolid sample
`
	got, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertTrianglesEqual(t, got, sampleTriangles())
}

func TestDecodeASCIIScientificNotation(t *testing.T) {
	src := `solid s
vertex 1.5e-1 0e0 -2.25E+1
vertex 1 0 0
vertex 0 1 0
endsolid
`
	got, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("triangles = %d, want 1", len(got))
	}
	v := got[0][0]
	if math.Abs(v.X-0.15) > 1e-12 || v.Y != 0 || math.Abs(v.Z+22.5) > 1e-12 {
		t.Errorf("vertex = %v, want (0.15,0,-22.5)", v)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("not a mesh at all"),
		[]byte{0x01, 0x02, 0x03},
	}
	for _, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Errorf("Decode(%q) should fail", data)
		}
	}
}

func TestDecodeASCIIMalformedVertex(t *testing.T) {
	src := "solid s\nvertex 1 2\nendsolid\n"
	if _, err := Decode([]byte(src)); err == nil {
		t.Error("short vertex line should fail")
	}

	src = "solid s\nvertex a b c\nendsolid\n"
	if _, err := Decode([]byte(src)); err == nil {
		t.Error("non-numeric vertex should fail")
	}
}

func TestDecodeASCIIDanglingVertices(t *testing.T) {
	src := "solid s\nvertex 0 0 0\nvertex 1 0 0\nendsolid\n"
	if _, err := Decode([]byte(src)); err == nil {
		t.Error("incomplete final triangle should fail")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	want := sampleTriangles()
	if err := os.WriteFile(path, encodeBinary(want), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertTrianglesEqual(t, got, want)
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.stl")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
