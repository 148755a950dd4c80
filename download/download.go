// Package download materializes a KnownProvenance into a local directory:
// fetch-and-extract for Artifact, clone-and-checkout for Repository.
package download

import (
	"context"

	"github.com/srcscan/srcscan"
)

// Downloader materializes a KnownProvenance's source tree into dir.
type Downloader interface {
	Download(ctx context.Context, known srcscan.Provenance, dir string) error
}

// Multi dispatches to its Artifact or its VCS Downloader depending on the
// provenance's kind, the way the orchestrator's own dispatch switches on
// scanner.Shape.
type Multi struct {
	Artifact Downloader
	VCS      Downloader
}

var _ Downloader = Multi{}

// Download implements Downloader.
func (m Multi) Download(ctx context.Context, known srcscan.Provenance, dir string) error {
	switch {
	case known.IsArtifact():
		if m.Artifact == nil {
			return &srcscan.Error{Kind: srcscan.ErrDownload, Op: "Multi.Download", Message: "no artifact downloader configured"}
		}
		return m.Artifact.Download(ctx, known, dir)
	case known.IsRepository():
		if m.VCS == nil {
			return &srcscan.Error{Kind: srcscan.ErrDownload, Op: "Multi.Download", Message: "no VCS downloader configured"}
		}
		return m.VCS.Download(ctx, known, dir)
	default:
		return &srcscan.Error{Kind: srcscan.ErrDownload, Op: "Multi.Download", Message: "provenance is not Known"}
	}
}
