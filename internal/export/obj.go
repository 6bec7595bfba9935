// Package export writes wrap results to disk: ribbon meshes as Wavefront OBJ and segment
// placements as YAML.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

// ErrEmptyMesh is returned when there is nothing to export.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// WriteOBJ writes m as a single named OBJ object with positions, UVs and normals.
// Face indices are 1-based and reference the same index for all three attributes.
func WriteOBJ(w io.Writer, m *ribbon.Mesh, name string) error {
	if m == nil || m.Empty() {
		return ErrEmptyMesh
	}
	if len(m.UVs) != len(m.Vertices) || len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh attribute counts differ: %d vertices, %d uvs, %d normals",
			len(m.Vertices), len(m.UVs), len(m.Normals))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# bandage-wrap ribbon, covered length %g\n", m.CoveredLength)
	fmt.Fprintf(bw, "o %s\n", objName(name))

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}

	for i := 0; i+2 < len(m.Triangles); i += 3 {
		a, b, c := m.Triangles[i]+1, m.Triangles[i+1]+1, m.Triangles[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}

	return bw.Flush()
}

func objName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return "bandage"
	}
	return name
}

// SaveOBJ writes m to path, creating parent directories as needed.
func SaveOBJ(path string, m *ribbon.Mesh, name string) error {
	return save(path, func(w io.Writer) error {
		return WriteOBJ(w, m, name)
	})
}

func save(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
