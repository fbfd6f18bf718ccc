package ui

import (
	"github.com/leonardomso/gbconv/internal/converter"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// DocumentsFoundMsg is sent when the source tree has been scanned.
type DocumentsFoundMsg struct {
	Err       error
	Documents []scanner.Document
}

// DirectoriesPreparedMsg is sent once the output directories exist.
type DirectoriesPreparedMsg struct {
	Err error
}

// DocumentConvertedMsg is sent when a single document has been converted.
type DocumentConvertedMsg struct {
	Err    error
	Result converter.Result
	Index  int
}

// AllConversionsCompleteMsg is sent when every document has been converted.
type AllConversionsCompleteMsg struct{}
