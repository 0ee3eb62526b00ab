// Package stl reads triangle meshes from STL files, in both the binary and
// ASCII flavors. It is the file-based mesh source for the CLI; writing goes
// through the sdfx render package, which already has an STL writer.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	binaryHeaderLen = 80
	binaryFacetLen  = 50 // 12 floats + attribute count
)

// Load reads an STL file into a triangle soup. The format is detected from
// the content, not the extension: a file whose length matches the binary
// layout is binary, anything else starting with "solid" is parsed as ASCII.
func Load(path string) ([]*sdf.Triangle3, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	tris, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("stl: %s: %w", path, err)
	}
	return tris, nil
}

// Decode parses STL content from memory.
func Decode(data []byte) ([]*sdf.Triangle3, error) {
	if isBinary(data) {
		return decodeBinary(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return decodeASCII(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("not an STL file")
}

// isBinary checks whether the byte length matches the binary STL layout
// for the facet count stored in the header. ASCII files starting with
// "solid" almost never do.
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderLen+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[binaryHeaderLen:])
	expected := uint64(binaryHeaderLen) + 4 + uint64(count)*binaryFacetLen
	return uint64(len(data)) == expected
}

func decodeBinary(data []byte) ([]*sdf.Triangle3, error) {
	count := binary.LittleEndian.Uint32(data[binaryHeaderLen:])
	tris := make([]*sdf.Triangle3, 0, count)
	off := binaryHeaderLen + 4
	for i := uint32(0); i < count; i++ {
		// Skip the 3-float facet normal; it is recomputed on demand.
		rec := data[off : off+binaryFacetLen]
		t := &sdf.Triangle3{}
		for v := 0; v < 3; v++ {
			base := 12 + v*12
			t[v] = v3.Vec{
				X: float64(leFloat32(rec[base:])),
				Y: float64(leFloat32(rec[base+4:])),
				Z: float64(leFloat32(rec[base+8:])),
			}
		}
		tris = append(tris, t)
		off += binaryFacetLen
	}
	return tris, nil
}

func leFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeASCII(r io.Reader) ([]*sdf.Triangle3, error) {
	var tris []*sdf.Triangle3
	var verts []v3.Vec

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: malformed vertex", line)
		}
		var xyz [3]float64
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			xyz[i] = f
		}
		verts = append(verts, v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		if len(verts) == 3 {
			tris = append(tris, &sdf.Triangle3{verts[0], verts[1], verts[2]})
			verts = verts[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(verts) != 0 {
		return nil, fmt.Errorf("dangling vertices at end of file")
	}
	return tris, nil
}
