package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/leonardomso/gbconv/internal/converter"
	"github.com/leonardomso/gbconv/internal/helpers"
	"github.com/leonardomso/gbconv/internal/logging"
	"github.com/leonardomso/gbconv/internal/scanner"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

type appState int

const (
	stateScanning   appState = iota // Walking the source tree
	statePreparing                  // Creating output directories
	stateConverting                 // Converting documents one by one
	stateResults                    // Showing results (list view)
)

// =============================================================================
// FILTER TYPES
// =============================================================================

type filterType int

const (
	filterAll           filterType = iota // Every converted document
	filterWithAssets                      // Documents that relocated at least one asset
	filterSkippedRemote                   // Documents with remote file/image references
)

const filterCount = 3

func (f filterType) String() string {
	switch f {
	case filterAll:
		return "All Documents"
	case filterWithAssets:
		return "With Assets"
	case filterSkippedRemote:
		return "Remote References"
	default:
		return "Unknown"
	}
}

func (f filterType) Next() filterType {
	return (f + 1) % filterCount
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures the interactive conversion.
type Options struct {
	Scan scanner.ScanOptions
	// Logger receives converter records. Defaults to logging.Default().
	Logger *log.Logger
	DryRun bool
}

// Model is the main application model.
type Model struct {
	// State
	state    appState
	quitting bool
	err      error

	// Data
	documents []scanner.Document
	results   []converter.Result

	// Categorized results
	withAssets    []converter.Result
	skippedRemote []converter.Result

	// Progress tracking
	converted int
	rewrites  int
	assets    int

	// Filter
	filter filterType

	// Components
	spinner spinner.Model
	list    list.Model
	help    help.Model
	keys    KeyMap

	converter *converter.Converter
	ctx       context.Context //nolint:containedctx // tea.Cmds are built outside Update

	// UI state
	width       int
	height      int
	showHelp    bool
	hideDetails bool

	// Config
	opts Options
}

// New creates and returns a new Model for the given options.
func New(opts Options) Model {
	if opts.Scan.Root == "" {
		opts.Scan.Root = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Converted Documents"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // We use our own help
	l.Styles.Title = TitleStyle

	ctx := context.Background()
	if opts.Logger != nil {
		ctx = logging.WithLogger(ctx, opts.Logger)
	}

	return Model{
		state:     stateScanning,
		spinner:   s,
		list:      l,
		help:      help.New(),
		keys:      DefaultKeyMap(),
		filter:    filterAll,
		converter: converter.New(converter.Options{DryRun: opts.DryRun}),
		ctx:       ctx,
		opts:      opts,
	}
}

// Err returns the error that stopped the conversion, if any.
func (m Model) Err() error {
	return m.err
}

// Results returns the documents converted so far.
func (m Model) Results() []converter.Result {
	return m.results
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ScanDocumentsCmd(m.opts.Scan))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for header, summary, and detail panel
		listHeight := max(msg.Height-14, 5)
		m.list.SetSize(msg.Width, listHeight)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DocumentsFoundMsg:
		return m.handleDocumentsFound(msg)

	case DirectoriesPreparedMsg:
		return m.handleDirectoriesPrepared(msg)

	case DocumentConvertedMsg:
		return m.handleDocumentConverted(msg)

	case AllConversionsCompleteMsg:
		return m.handleAllConversionsComplete()
	}

	// Pass other messages to list if in results state
	if m.state == stateResults {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys that work in any state
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state == stateResults {
		switch {
		case key.Matches(msg, m.keys.Filter):
			m.filter = m.filter.Next()
			m.updateListItems()
			return m, nil
		case key.Matches(msg, m.keys.Details):
			m.hideDetails = !m.hideDetails
			return m, nil
		}

		// Pass navigation keys to list
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleDocumentsFound(msg DocumentsFoundMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.documents = msg.Documents

	if len(m.documents) == 0 {
		m.state = stateResults
		return m, nil
	}
	m.state = statePreparing
	return m, PrepareDirectoriesCmd(m.documents, m.opts.DryRun)
}

func (m Model) handleDirectoriesPrepared(msg DirectoriesPreparedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.state = stateConverting
	return m, ConvertDocumentCmd(m.ctx, m.converter, m.documents, 0)
}

func (m Model) handleDocumentConverted(msg DocumentConvertedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The first failure ends the run; earlier output stays on disk.
		m.err = msg.Err
		m.state = stateResults
		m.updateListItems()
		return m, nil
	}

	r := msg.Result
	m.results = append(m.results, r)
	m.converted++
	m.rewrites += r.TotalRewrites()
	m.assets += len(r.Assets)

	if len(r.Assets) > 0 {
		m.withAssets = append(m.withAssets, r)
	}
	if len(r.SkippedRemote) > 0 {
		m.skippedRemote = append(m.skippedRemote, r)
	}

	return m, ConvertDocumentCmd(m.ctx, m.converter, m.documents, msg.Index+1)
}

func (m Model) handleAllConversionsComplete() (tea.Model, tea.Cmd) {
	m.state = stateResults
	m.updateListItems()
	return m, nil
}

// updateListItems updates the list with filtered results.
func (m *Model) updateListItems() {
	filtered := m.getFilteredResults()
	items := make([]list.Item, len(filtered))
	for i, r := range filtered {
		items[i] = DocumentItem{Result: r}
	}
	m.list.SetItems(items)
}

// getFilteredResults returns results based on current filter.
func (m *Model) getFilteredResults() []converter.Result {
	switch m.filter {
	case filterAll:
		return m.results
	case filterWithAssets:
		return m.withAssets
	case filterSkippedRemote:
		return m.skippedRemote
	default:
		return nil
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var s string

	// Header
	s += TitleStyle.Render("gbconv - GitBook to Markdown")
	s += "\n\n"

	switch m.state {
	case stateScanning:
		s += m.spinner.View() + " Scanning " + m.opts.Scan.Root + " for markdown files..."

	case statePreparing:
		s += m.spinner.View() + fmt.Sprintf(" Found %d document(s), creating output directories...", len(m.documents))

	case stateConverting:
		s += m.renderConvertingProgress()

	case stateResults:
		s += m.renderResults()
	}

	// Help
	if m.showHelp {
		s += "\n\n" + m.help.View(m.keys)
	} else {
		s += "\n\n" + m.renderShortHelp()
	}

	return s
}

func (m Model) renderConvertingProgress() string {
	var s string

	s += m.spinner.View() + fmt.Sprintf(" Converting documents... %d/%d", m.converted, len(m.documents))
	s += "\n\n"

	// Live counts
	s += fmt.Sprintf("  %s  %s  %s",
		SuccessStyle.Render(fmt.Sprintf("✓ %d rewrites", m.rewrites)),
		AssetStyle.Render(fmt.Sprintf("◈ %d assets", m.assets)),
		WarningStyle.Render(fmt.Sprintf("⚠ %d with remote refs", len(m.skippedRemote))))

	return s
}

func (m Model) renderResults() string {
	var s string

	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		s += "\n"
		if len(m.results) == 0 {
			return s + HelpStyle.Render("Press q to quit")
		}
		s += MutedStyle.Render(fmt.Sprintf("Stopped after %d of %d document(s).", len(m.results), len(m.documents)))
		s += "\n\n"
	}

	if len(m.documents) == 0 {
		return s + MutedStyle.Render("No markdown files found in "+m.opts.Scan.Root)
	}

	// Summary line
	verb := "Converted"
	if m.opts.DryRun {
		verb = "Would convert"
	}
	s += fmt.Sprintf("%s %d of %d document(s)\n\n", verb, len(m.results), len(m.documents))

	// Category summary
	s += fmt.Sprintf("%s | %s | %s\n\n",
		SuccessStyle.Render(fmt.Sprintf("✓ %d rewrites", m.rewrites)),
		AssetStyle.Render(fmt.Sprintf("◈ %d assets in %d document(s)", m.assets, len(m.withAssets))),
		WarningStyle.Render(fmt.Sprintf("⚠ %d with remote refs (%d unique)",
			len(m.skippedRemote), m.uniqueRemoteRefs())))

	// Filter indicator
	s += fmt.Sprintf("Filter: %s (%d/%d)\n\n",
		SelectedStyle.Render(m.filter.String()),
		len(m.getFilteredResults()),
		len(m.results))

	s += m.list.View()

	// Detail panel for selected item
	if !m.hideDetails {
		if selected := m.list.SelectedItem(); selected != nil {
			if item, ok := selected.(DocumentItem); ok {
				s += "\n" + item.DetailView()
			}
		}
	}

	return s
}

func (Model) renderShortHelp() string {
	return HelpStyle.Render("↑/↓ navigate • f filter • d details • ? help • q quit")
}

// uniqueRemoteRefs counts distinct remote references across all results.
func (m Model) uniqueRemoteRefs() int {
	var refs []string
	for _, r := range m.results {
		refs = append(refs, r.SkippedRemote...)
	}
	return helpers.CountUniqueStrings(refs)
}
