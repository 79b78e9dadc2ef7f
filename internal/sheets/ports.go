package sheets

import "context"

// Ports for outbound adapters.
type (
	// RangeReader reads the full used range of a named sheet tab.
	RangeReader interface {
		ReadRows(ctx context.Context, sheet string) ([][]any, error)
	}

	// MirrorWriter replaces the full contents of a named sheet tab.
	MirrorWriter interface {
		Overwrite(ctx context.Context, sheet string, rows [][]any) error
	}
)
