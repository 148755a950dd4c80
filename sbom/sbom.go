// Package sbom defines the contract for rendering a scan's nested result
// tree as a software bill of materials.
package sbom

import (
	"context"
	"io"

	"github.com/srcscan/srcscan"
)

// Encoder renders a NestedProvenanceScanResult as an SBOM document.
type Encoder interface {
	Encode(ctx context.Context, res *srcscan.NestedProvenanceScanResult) (io.Reader, error)
}
