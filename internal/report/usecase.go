package report

import "context"

type UseCase interface {
	// BuildReport renders the inflation metrics as a plain text block.
	BuildReport(ctx context.Context) (string, error)
}
