package page

import "errors"

// ErrSourceUnreadable is returned when a page's source file cannot be read.
// The page is skipped; the rest of the build is unaffected.
var ErrSourceUnreadable = errors.New("source unreadable")
