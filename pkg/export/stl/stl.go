// Package stl writes meshes as binary STL: an 80-byte header, a
// little-endian uint32 triangle count, then 50 bytes per triangle
// (normal, three vertices, attribute word).
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/VibeCAD/roomforge/pkg/kernel"
)

// short name, for convenience
var le = binary.LittleEndian

const headerSize = 80

// triangleSize is the fixed on-disk size of one facet record.
const triangleSize = 4*3*4 + 2

// Write encodes the meshes into w as one binary STL body. The header
// string is truncated or zero-padded to 80 bytes.
func Write(w io.Writer, meshes []*kernel.Mesh, header string) error {
	var hdr [headerSize]byte
	copy(hdr[:], header)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var count uint32
	for _, m := range meshes {
		if m == nil {
			continue
		}
		count += uint32(m.TriangleCount())
	}
	if err := binary.Write(w, le, count); err != nil {
		return fmt.Errorf("write triangle count: %w", err)
	}

	buf := make([]byte, triangleSize)
	for _, m := range meshes {
		if m == nil {
			continue
		}
		if err := writeMesh(w, m, buf); err != nil {
			return fmt.Errorf("write mesh %q: %w", m.PartName, err)
		}
	}
	return nil
}

// WriteFile writes the meshes to path as a single binary STL file.
func WriteFile(path string, meshes []*kernel.Mesh, header string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := Write(w, meshes, header); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func writeMesh(w io.Writer, m *kernel.Mesh, buf []byte) error {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		off := 0

		// The facet normal is taken from the triangle's first
		// vertex; the kernel emits one normal per vertex.
		ni := int(m.Indices[i]) * 3
		off = put3(buf, off, m.Normals, ni)

		for j := 0; j < 3; j++ {
			vi := int(m.Indices[i+j]) * 3
			off = put3(buf, off, m.Vertices, vi)
		}

		// attribute byte count, unused
		le.PutUint16(buf[off:], 0)

		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func put3(buf []byte, off int, src []float32, i int) int {
	for k := 0; k < 3; k++ {
		var v float32
		if i+k < len(src) {
			v = src[i+k]
		}
		le.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	return off
}
