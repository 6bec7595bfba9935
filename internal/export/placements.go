package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/bandage-wrap/pkg/ribbon"
)

// placementsVersion is bumped when the document layout changes.
const placementsVersion = 1

type placementsDoc struct {
	Version  int                    `yaml:"version"`
	Count    int                    `yaml:"count"`
	Segments []ribbon.PlacedSegment `yaml:"segments"`
}

// WritePlacements writes segs as a YAML document.
func WritePlacements(w io.Writer, segs []ribbon.PlacedSegment) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(placementsDoc{
		Version:  placementsVersion,
		Count:    len(segs),
		Segments: segs,
	}); err != nil {
		return err
	}
	return enc.Close()
}

// ReadPlacements reads a document written by WritePlacements.
func ReadPlacements(r io.Reader) ([]ribbon.PlacedSegment, error) {
	var doc placementsDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding placements: %w", err)
	}
	if doc.Version != placementsVersion {
		return nil, fmt.Errorf("unsupported placements version %d", doc.Version)
	}
	if doc.Count != len(doc.Segments) {
		return nil, fmt.Errorf("placements count %d does not match %d segments", doc.Count, len(doc.Segments))
	}
	return doc.Segments, nil
}

// SavePlacements writes segs to path, creating parent directories as needed.
func SavePlacements(path string, segs []ribbon.PlacedSegment) error {
	return save(path, func(w io.Writer) error {
		return WritePlacements(w, segs)
	})
}
