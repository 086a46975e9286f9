// Package review provides the page review and correction view for the TUI.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/components/minimap"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// Mode is what the view's key input currently drives.
type Mode int

const (
	// ModeBrowse selects, reorders and navigates.
	ModeBrowse Mode = iota
	// ModeEdit edits one block's content or caption.
	ModeEdit
	// ModeGoTo prompts for a page number.
	ModeGoTo
)

// View is the review view: the current page's blocks, an overlay minimap
// and a status bar.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	review driving.ReviewService
	ctx    context.Context

	list      *list.BlockList
	bar       *status.Bar
	minimap   *minimap.Minimap
	pageInput *input.PageInput
	editor    textarea.Model

	page        domain.Page
	mode        Mode
	editingID   string
	editCaption bool
	pending     *domain.FetchTicket
	showOverlay bool
	confirmQuit bool

	width  int
	height int
	ready  bool
}

// NewView creates a new review view.
func NewView(s *styles.Styles, km *keymap.KeyMap, review driving.ReviewService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	return &View{
		styles:      s,
		keymap:      km,
		review:      review,
		ctx:         context.Background(),
		list:        list.NewBlockList(s),
		bar:         status.NewBar(s, km),
		minimap:     minimap.New(s),
		pageInput:   input.NewPageInput(s),
		editor:      editor,
		showOverlay: true,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init shows the current page, loading it if an earlier fetch failed.
func (v *View) Init() tea.Cmd {
	page, ticket := v.review.Navigate(v.review.Status().CurrentPage)
	return v.navigated(page, ticket)
}

// Update handles messages for the review view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ModeEdit:
			return v.handleEditKey(msg)
		case ModeGoTo:
			return v.handleGoToKey(msg)
		case ModeBrowse:
		}
		return v.handleBrowseKey(msg)

	case messages.PageLoaded:
		return v, v.deliver(msg.Result)

	case messages.RasterLoaded:
		v.applyRaster(msg)
		return v, nil

	case messages.PageChanged:
		if msg.PageIndex == v.page.Index {
			v.bar.Info(fmt.Sprintf("Page %d changed on disk, press r to reload", msg.PageIndex+1))
		}
		return v, nil

	case messages.ExportRequested:
		return v, v.exportCmd(msg.Format)

	case messages.ExportCompleted:
		if msg.Err != nil {
			v.bar.Error(msg.Err)
		} else {
			v.bar.Info(fmt.Sprintf("Exported %d blocks to %s", msg.Artifact.BlockCount, msg.Artifact.Location))
		}
		v.bar.SetStatus(v.review.Status())
		return v, nil

	case messages.ErrorOccurred:
		v.bar.Error(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	switch v.mode {
	case ModeEdit:
		v.editor, cmd = v.editor.Update(msg)
	case ModeGoTo:
		v.pageInput, cmd = v.pageInput.Update(msg)
	case ModeBrowse:
	}
	return v, cmd
}

//nolint:gocyclo,funlen // one case per binding
func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	if !keymap.Matches(k, v.keymap.Quit) {
		v.confirmQuit = false
	}

	switch {
	case keymap.Matches(k, v.keymap.Quit):
		if v.review.Status().Saved || v.confirmQuit {
			return v, tea.Quit
		}
		v.confirmQuit = true
		v.bar.Info("Unsaved changes: press x to export or q again to quit")
		return v, nil

	case keymap.Matches(k, v.keymap.Help):
		return v, changeView(messages.ViewHelp)

	case keymap.Matches(k, v.keymap.Export):
		return v, changeView(messages.ViewExport)

	case keymap.Matches(k, v.keymap.MoveUp):
		v.move(-1)
		return v, nil

	case keymap.Matches(k, v.keymap.MoveDown):
		v.move(1)
		return v, nil

	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
		v.syncSelection()
		return v, nil

	case keymap.Matches(k, v.keymap.NextPage):
		page, ticket := v.review.Next()
		return v, v.navigated(page, ticket)

	case keymap.Matches(k, v.keymap.PrevPage):
		page, ticket := v.review.Previous()
		return v, v.navigated(page, ticket)

	case keymap.Matches(k, v.keymap.GoTo):
		v.mode = ModeGoTo
		v.pageInput.Reset()
		return v, v.pageInput.Focus()

	case keymap.Matches(k, v.keymap.Edit):
		return v, v.openEditor()

	case keymap.Matches(k, v.keymap.Delete):
		if b := v.list.SelectedBlock(); b != nil && v.editable() {
			v.apply(domain.DeleteBlockIntent{BlockID: b.ID})
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Duplicate):
		if b := v.list.SelectedBlock(); b != nil && v.editable() {
			sel := v.list.Selected()
			if v.apply(domain.DuplicateBlockIntent{BlockID: b.ID}) {
				v.list.SetSelected(sel + 1)
				v.syncSelection()
			}
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Correct):
		return v, v.markCorrected()

	case keymap.Matches(k, v.keymap.Uncorrect):
		if v.page.IsCorrected() {
			v.page = v.review.MarkUncorrected(v.ctx)
			v.refresh()
			v.bar.Info(fmt.Sprintf("Page %d open for editing", v.page.Index+1))
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Refetch):
		ticket := v.review.Refetch()
		v.minimap.ClearRaster()
		return v, v.startLoad(&ticket)

	case keymap.Matches(k, v.keymap.Overlay):
		v.showOverlay = !v.showOverlay
		return v, nil
	}

	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Save):
		v.commitEditor()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Back):
		v.closeEditor()
		return v, nil
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) handleGoToKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter:
		index, err := v.pageInput.PageIndex()
		v.mode = ModeBrowse
		v.pageInput.Blur()
		if err != nil {
			v.bar.Error(err)
			return v, nil
		}
		page, ticket := v.review.Navigate(index)
		return v, v.navigated(page, ticket)
	case keymap.Matches(msg.String(), v.keymap.Back):
		v.mode = ModeBrowse
		v.pageInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.pageInput, cmd = v.pageInput.Update(msg)
	return v, cmd
}

// editable reports whether the current page accepts edits, explaining why not.
func (v *View) editable() bool {
	switch {
	case v.page.IsCorrected():
		v.bar.Info(fmt.Sprintf("Page %d is corrected, press u to edit again", v.page.Index+1))
		return false
	case !v.page.Loaded:
		v.bar.Info("Page is not loaded, press r to retry")
		return false
	}
	return true
}

// apply runs an intent against the current page and redraws it.
func (v *View) apply(intent domain.Intent) bool {
	page, err := v.review.Apply(v.ctx, intent)
	if err != nil {
		v.bar.Error(err)
		return false
	}
	v.page = page
	v.bar.Clear()
	v.refresh()
	return true
}

// move shifts the selected block by delta positions.
func (v *View) move(delta int) {
	from := v.list.Selected()
	to := from + delta
	if v.list.IsEmpty() || to < 0 || to >= v.list.Count() || !v.editable() {
		return
	}
	if v.apply(domain.ReorderIntent{From: from, To: to}) {
		v.list.SetSelected(to)
		v.syncSelection()
	}
}

func (v *View) markCorrected() tea.Cmd {
	if !v.page.Loaded {
		v.bar.Info("Page is not loaded, press r to retry")
		return nil
	}
	corrected := v.page.Index
	page, ticket, err := v.review.MarkCorrected(v.ctx)
	if err != nil {
		cmd := v.navigated(page, ticket)
		v.bar.Error(err)
		return cmd
	}
	cmd := v.navigated(page, ticket)
	if v.review.Status().AllPagesCorrected {
		v.bar.Info("All pages corrected, press x to export")
	} else if ticket == nil {
		v.bar.Info(fmt.Sprintf("Page %d corrected", corrected+1))
	}
	return cmd
}

func (v *View) openEditor() tea.Cmd {
	b := v.list.SelectedBlock()
	if b == nil || !v.editable() {
		return nil
	}

	v.editingID = b.ID
	v.editCaption = b.Type.Kind() == domain.BlockTypePicture || b.IsInlineImage()
	if v.editCaption {
		v.editor.SetValue(b.Caption())
	} else {
		v.editor.SetValue(b.Content)
	}
	v.mode = ModeEdit
	v.bar.SetState(status.StateEditing)
	return v.editor.Focus()
}

func (v *View) commitEditor() {
	idx := domain.IndexOfBlock(v.page.Blocks, v.editingID)
	value := v.editor.Value()
	v.closeEditor()
	if idx < 0 {
		v.bar.Error(fmt.Errorf("%w: %s", domain.ErrBlockNotFound, v.editingID))
		return
	}

	b := v.page.Blocks[idx]
	intent := domain.EditContentIntent{BlockID: b.ID, Content: value}
	if v.editCaption {
		meta := domain.CloneMetadata(b.Metadata)
		if meta == nil {
			meta = make(map[string]any, 1)
		}
		meta[domain.MetadataCaption] = value
		intent.Content = b.Content
		intent.Metadata = meta
	}
	v.apply(intent)
}

func (v *View) closeEditor() {
	v.editor.Blur()
	v.mode = ModeBrowse
	v.bar.Clear()
}

// navigated shows page and starts whatever loads it needs.
func (v *View) navigated(page domain.Page, ticket *domain.FetchTicket) tea.Cmd {
	if page.Index != v.page.Index {
		v.list.Reset()
		v.minimap.ClearRaster()
	}
	v.page = page
	v.bar.Clear()
	v.refresh()
	if ticket != nil {
		return v.startLoad(ticket)
	}
	return v.rasterCmd()
}

func (v *View) startLoad(ticket *domain.FetchTicket) tea.Cmd {
	v.pending = ticket
	v.bar.SetState(status.StateLoading)
	review, ctx, t := v.review, v.ctx, *ticket
	load := func() tea.Msg {
		return messages.PageLoaded{Result: review.Load(ctx, t)}
	}
	return tea.Batch(load, v.rasterCmd())
}

// deliver hands a fetch result to the session; superseded results are dropped.
func (v *View) deliver(result domain.FetchResult) tea.Cmd {
	page, applied := v.review.Deliver(v.ctx, result)
	if v.pending != nil && v.pending.Seq == result.Ticket.Seq {
		v.pending = nil
		if v.bar.State() == status.StateLoading {
			v.bar.Clear()
		}
	}
	if !applied {
		logger.Debug("Dropped stale fetch of page %d", result.Ticket.PageIndex)
		return nil
	}

	v.page = page
	if result.Err != nil {
		v.bar.Error(fmt.Errorf("page %d: %w", result.Ticket.PageIndex+1, result.Err))
	}
	v.refresh()
	return nil
}

func (v *View) rasterCmd() tea.Cmd {
	review, ctx, index := v.review, v.ctx, v.page.Index
	return func() tea.Msg {
		raster, err := review.Raster(ctx, index)
		return messages.RasterLoaded{PageIndex: index, Raster: raster, Err: err}
	}
}

func (v *View) applyRaster(msg messages.RasterLoaded) {
	if msg.PageIndex != v.page.Index {
		return
	}
	if msg.Err != nil || msg.Raster == nil {
		v.minimap.ClearRaster()
		return
	}
	v.minimap.SetRaster(msg.Raster.Size)
	v.minimap.SetMarkers(v.review.OnDisplaySizeChanged(v.minimap.DisplaySize()))
}

func (v *View) exportCmd(format domain.ExportFormat) tea.Cmd {
	review, ctx := v.review, v.ctx
	return func() tea.Msg {
		artifact, err := review.Export(ctx, format)
		return messages.ExportCompleted{Format: format, Artifact: artifact, Err: err}
	}
}

// refresh redraws the list, status and markers from the current page.
func (v *View) refresh() {
	v.list.SetBlocks(v.page.Blocks)
	v.bar.SetStatus(v.review.Status())
	if v.minimap.HasRaster() {
		v.minimap.SetMarkers(v.review.Markers())
	}
	v.syncSelection()
}

func (v *View) syncSelection() {
	if b := v.list.SelectedBlock(); b != nil {
		v.minimap.SetSelected(b.ID)
	} else {
		v.minimap.SetSelected("")
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the review view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	switch v.mode {
	case ModeEdit:
		label := "Content"
		if v.editCaption {
			label = "Caption"
		}
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Editing %s of %s", label, v.editingID)))
		b.WriteString("\n")
		b.WriteString(v.styles.Editor.Render(v.editor.View()))
	default:
		body := v.list.View()
		if v.showOverlay {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", v.minimap.View())
		}
		b.WriteString(body)
	}

	if v.mode == ModeGoTo {
		b.WriteString("\n\n")
		b.WriteString(v.pageInput.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderHeader() string {
	st := v.review.Status()
	title := v.styles.Title.Render(fmt.Sprintf("Page %d of %d", v.page.Index+1, st.PageCount))

	badge := v.styles.Uncorrected.Render("uncorrected")
	if v.page.IsCorrected() {
		badge = v.styles.Corrected.Render("corrected")
	}
	header := title + "  " + badge

	if v.page.LoadErr != nil {
		header += "  " + v.styles.Error.Render("load failed: "+v.page.LoadErr.Error())
	}
	if st.DocumentID != "" {
		header += "\n" + v.styles.Muted.Render(st.DocumentID)
	}
	return header
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	mapWidth := width / 3
	listWidth := width - mapWidth - 4
	v.list.SetDimensions(listWidth, height-8)
	v.minimap.SetDimensions(mapWidth, height-10)
	v.bar.SetWidth(width)
	v.editor.SetWidth(width - 6)
	v.editor.SetHeight(height - 10)

	if v.minimap.HasRaster() {
		v.minimap.SetMarkers(v.review.OnDisplaySizeChanged(v.minimap.DisplaySize()))
	}
}

// Page returns the page being shown.
func (v *View) Page() domain.Page {
	return v.page
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Selected returns the index of the selected block.
func (v *View) Selected() int {
	return v.list.Selected()
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.bar
}

// Minimap returns the overlay minimap.
func (v *View) Minimap() *minimap.Minimap {
	return v.minimap
}

// Loading reports whether a page fetch is outstanding.
func (v *View) Loading() bool {
	return v.pending != nil
}
