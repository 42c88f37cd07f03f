package port

import "context"

// PackArchive stores the raw document bytes of ingested tagpacks so the
// original submission can always be audited.
type PackArchive interface {
	ArchivePack(ctx context.Context, packID string, data []byte) error
	FetchPack(ctx context.Context, packID string) ([]byte, error)
}
