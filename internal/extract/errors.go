package extract

import (
	"errors"
	"fmt"

	"github.com/Shameer29/GetLandedATS--sub001/internal/models"
)

// ErrUnsupportedFormat is returned at intake boundaries (upload handler, file
// commands, watcher) for files that are neither .pdf nor .docx. Detection
// itself never raises it: every filename maps to one of the two formats, and
// mislabeled bytes fail extraction instead.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError reports a text extraction failure for a given format.
// It wraps the underlying cause.
type ExtractionError struct {
	Format models.Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
