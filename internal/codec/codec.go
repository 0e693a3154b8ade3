// Package codec converts entities and snapshots to and from bytes.
//
// Bounded codecs (bounded.go) define the persisted form of every entity
// inside a memory region. Importers and exporters (json.go, yaml.go) define
// the portable snapshot formats used for backup and restore.
package codec

import (
	"fmt"
	"io"

	"repomanage/internal/domain"
)

// Importer reads a snapshot from a portable format
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes a snapshot in a portable format
type Exporter interface {
	Export(snapshot *domain.Snapshot, w io.Writer) error
	Format() string
}

// SnapshotCodec both imports and exports snapshots
type SnapshotCodec interface {
	Importer
	Exporter
}

// ByFormat returns the snapshot codec for a format name
func ByFormat(format string) (SnapshotCodec, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (want json or yaml)", format)
	}
}
