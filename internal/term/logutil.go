package term

import (
	"io"
	"log"
)

// Logger receives terminal-driver diagnostics (raw mode failures,
// terminal write failures). The linedit package points this at its own Logger
// during Session construction so both share one sink.
var Logger = log.New(io.Discard, "linedit/term: ", 0)
