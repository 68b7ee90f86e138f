package pipeline

import "errors"

// Fatal input-rejection errors. Both abort the run and surface a single
// human-readable message to the caller; everything else the pipeline hits
// is either a per-source warning or a silent per-cell degradation.
var (
	// ErrNoTargetSheet: no uploaded source contains a recognizable
	// distribution sheet. The wrapped message lists the sheet names that
	// were actually found.
	ErrNoTargetSheet = errors.New("no distribution sheet found")

	// ErrMissingHeader: a required header column is absent after
	// combination.
	ErrMissingHeader = errors.New("required header column missing")
)
