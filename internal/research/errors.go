package research

import "errors"

var (
	// ErrEmptyQuery is the only terminal failure of a research run.
	ErrEmptyQuery = errors.New("research: empty query")

	// ErrDuplicateKey fires when a stage writes a context key that is
	// already present.
	ErrDuplicateKey = errors.New("research: context key already written")

	// ErrInvalidPipeline fires at composition time when a stage reads a
	// key no earlier stage writes, or two stages declare the same output.
	ErrInvalidPipeline = errors.New("research: invalid pipeline")
)
