package extract

import "errors"

// ErrExtractionFailed indicates the file as a whole could not be read as a
// PDF. It is distinct from individual unreadable pages, which are skipped.
var ErrExtractionFailed = errors.New("text extraction failed")
