package analyzer

import "errors"

// DefaultMaxFileSize bounds uploaded resume payloads (10 MiB).
const DefaultMaxFileSize = 10 << 20

// ErrDocumentTooLarge is returned when a payload exceeds the configured
// size bound. The check runs before any extraction work.
var ErrDocumentTooLarge = errors.New("document exceeds size limit")
