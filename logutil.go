package linedit

import (
	"io"
	"log"
)

// Logger receives diagnostics that must not be written to the terminal a
// Session controls: raw-mode failures, malformed escape sequences,
// tokenizer infinite-loop warnings, history store errors. It defaults to
// discarding everything.
var Logger = log.New(io.Discard, "linedit: ", 0)
