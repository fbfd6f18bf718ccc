package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/gbconv/internal/converter"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// ScanDocumentsCmd returns a command that finds the documents to convert.
func ScanDocumentsCmd(opts scanner.ScanOptions) tea.Cmd {
	return func() tea.Msg {
		docs, err := scanner.FindDocuments(opts)
		return DocumentsFoundMsg{Documents: docs, Err: err}
	}
}

// PrepareDirectoriesCmd creates the output and asset directories.
// Nothing is created in dry-run mode.
func PrepareDirectoriesCmd(docs []scanner.Document, dryRun bool) tea.Cmd {
	return func() tea.Msg {
		if dryRun {
			return DirectoriesPreparedMsg{}
		}
		return DirectoriesPreparedMsg{Err: scanner.CreateOutputDirectories(docs)}
	}
}

// ConvertDocumentCmd converts docs[index]. Documents are converted one at a
// time: the model schedules the next index after each DocumentConvertedMsg.
func ConvertDocumentCmd(ctx context.Context, c *converter.Converter, docs []scanner.Document, index int) tea.Cmd {
	return func() tea.Msg {
		if index >= len(docs) {
			return AllConversionsCompleteMsg{}
		}

		result, err := c.ConvertFile(ctx, docs[index])
		if err != nil {
			return DocumentConvertedMsg{Index: index, Err: err}
		}
		return DocumentConvertedMsg{Index: index, Result: *result}
	}
}
