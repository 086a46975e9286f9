package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	DocumentID           string   `json:"document_id"`
	PageCount            int      `json:"page_count"`
	CurrentPage          int      `json:"current_page"`
	CorrectedPages       int      `json:"corrected_pages"`
	VisitedPages         int      `json:"visited_pages"`
	CurrentPageCorrected bool     `json:"current_page_corrected"`
	AllPagesCorrected    bool     `json:"all_pages_corrected"`
	Saved                bool     `json:"saved"`
	Formats              []string `json:"formats"`
}

// PageInput is the input schema for the get_page tool.
type PageInput struct {
	Page *int `json:"page,omitempty" jsonschema:"zero-based page index (default: the current page)"`
}

// GotoInput is the input schema for the goto tool.
type GotoInput struct {
	Page int `json:"page" jsonschema:"zero-based page index, clamped to the document"`
}

// ReorderInput is the input schema for the reorder_block tool.
type ReorderInput struct {
	From int `json:"from" jsonschema:"current position of the block on the page"`
	To   int `json:"to" jsonschema:"position the block should move to"`
}

// EditInput is the input schema for the edit_block tool.
type EditInput struct {
	BlockID string  `json:"block_id" jsonschema:"id of the block to edit"`
	Content *string `json:"content,omitempty" jsonschema:"replacement content; omit to keep the current content"`
	Caption *string `json:"caption,omitempty" jsonschema:"replacement picture caption"`
}

// BlockInput is the input schema for tools addressing one block.
type BlockInput struct {
	BlockID string `json:"block_id" jsonschema:"id of the block"`
}

// ExportInput is the input schema for the export tool.
type ExportInput struct {
	Format string `json:"format,omitempty" jsonschema:"export format (default json)"`
}

// PageOutput is the output schema for tools returning a page.
type PageOutput struct {
	Index     int           `json:"index"`
	State     string        `json:"state"`
	Loaded    bool          `json:"loaded"`
	LoadError string        `json:"load_error,omitempty"`
	Blocks    []BlockOutput `json:"blocks"`
}

// BlockOutput represents a single block on a page.
type BlockOutput struct {
	Position int     `json:"position"`
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Content  string  `json:"content"`
	Caption  string  `json:"caption,omitempty"`
	Box      *BoxOut `json:"bbox,omitempty"`
}

// BoxOut is a block's bounding box in source units.
type BoxOut struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// ExportOutput is the output schema for the export tool.
type ExportOutput struct {
	Format     string `json:"format"`
	Location   string `json:"location"`
	Bytes      int    `json:"bytes"`
	BlockCount int    `json:"block_count"`
}

// inlineImagePreview is how much of an inline data URI is returned to clients.
const inlineImagePreview = 48

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report review progress for the open document",
	}, s.handleStatus)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_page",
		Description: "Show the blocks of a page in their current order without navigating",
	}, s.handleGetPage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "goto",
		Description: "Navigate to a page, loading its blocks if needed",
	}, s.handleGoto)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reorder_block",
		Description: "Move a block on the current page from one position to another",
	}, s.handleReorder)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_block",
		Description: "Replace the content (and optionally the caption) of a block on the current page",
	}, s.handleEdit)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_block",
		Description: "Remove a block from the current page",
	}, s.handleDelete)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "duplicate_block",
		Description: "Insert a copy of a block directly after it",
	}, s.handleDuplicate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mark_corrected",
		Description: "Freeze the current page's order and advance to the next page",
	}, s.handleMarkCorrected)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mark_uncorrected",
		Description: "Re-open the current page for editing",
	}, s.handleMarkUncorrected)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refetch_page",
		Description: "Reload the current page from the source, discarding its edits and correction",
	}, s.handleRefetch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export",
		Description: "Export the reconciled document",
	}, s.handleExport)
}

func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return nil, s.statusOutput(), nil
}

func (s *Server) statusOutput() StatusOutput {
	st := s.ports.Review.Status()
	formats := s.ports.Review.Formats()
	out := StatusOutput{
		DocumentID:           st.DocumentID,
		PageCount:            st.PageCount,
		CurrentPage:          st.CurrentPage,
		CorrectedPages:       st.CorrectedPages,
		VisitedPages:         st.VisitedPages,
		CurrentPageCorrected: st.IsCurrentPageCorrected,
		AllPagesCorrected:    st.AllPagesCorrected,
		Saved:                st.Saved,
		Formats:              make([]string, len(formats)),
	}
	for i, f := range formats {
		out.Formats[i] = f.String()
	}
	return out
}

func (s *Server) handleGetPage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PageInput,
) (*mcp.CallToolResult, PageOutput, error) {
	if input.Page == nil {
		return nil, toPageOutput(s.ports.Review.CurrentPage()), nil
	}
	page, err := s.ports.Review.Page(*input.Page)
	if err != nil {
		return nil, PageOutput{}, err
	}
	return nil, toPageOutput(page), nil
}

func (s *Server) handleGoto(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GotoInput,
) (*mcp.CallToolResult, PageOutput, error) {
	return nil, toPageOutput(s.ports.Review.GoTo(ctx, input.Page)), nil
}

func (s *Server) handleReorder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReorderInput,
) (*mcp.CallToolResult, PageOutput, error) {
	return s.apply(ctx, domain.ReorderIntent{From: input.From, To: input.To})
}

func (s *Server) handleEdit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditInput,
) (*mcp.CallToolResult, PageOutput, error) {
	if input.Content == nil && input.Caption == nil {
		return nil, PageOutput{}, fmt.Errorf("%w: content or caption is required", domain.ErrInvalidInput)
	}
	current := s.ports.Review.CurrentPage()
	idx := domain.IndexOfBlock(current.Blocks, input.BlockID)
	if idx < 0 {
		return nil, PageOutput{}, fmt.Errorf("%w: %s", domain.ErrBlockNotFound, input.BlockID)
	}
	block := current.Blocks[idx]

	// get_page only shows a preview, so omitted content keeps the stored one.
	intent := domain.EditContentIntent{BlockID: input.BlockID, Content: block.Content}
	if input.Content != nil {
		intent.Content = *input.Content
	}
	if input.Caption != nil {
		meta := domain.CloneMetadata(block.Metadata)
		if meta == nil {
			meta = make(map[string]any, 1)
		}
		meta[domain.MetadataCaption] = *input.Caption
		intent.Metadata = meta
	}
	return s.apply(ctx, intent)
}

func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BlockInput,
) (*mcp.CallToolResult, PageOutput, error) {
	return s.apply(ctx, domain.DeleteBlockIntent{BlockID: input.BlockID})
}

func (s *Server) handleDuplicate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BlockInput,
) (*mcp.CallToolResult, PageOutput, error) {
	return s.apply(ctx, domain.DuplicateBlockIntent{BlockID: input.BlockID})
}

// apply refuses edits on corrected pages, matching the interactive editor.
func (s *Server) apply(ctx context.Context, intent domain.Intent) (*mcp.CallToolResult, PageOutput, error) {
	current := s.ports.Review.CurrentPage()
	if current.IsCorrected() {
		return nil, PageOutput{}, fmt.Errorf(
			"%w: page %d is corrected, call mark_uncorrected first", domain.ErrInvalidInput, current.Index)
	}
	page, err := s.ports.Review.Apply(ctx, intent)
	if err != nil {
		return nil, PageOutput{}, err
	}
	return nil, toPageOutput(page), nil
}

func (s *Server) handleMarkCorrected(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, PageOutput, error) {
	_, ticket, err := s.ports.Review.MarkCorrected(ctx)
	if err != nil {
		return nil, PageOutput{}, fmt.Errorf("%w; call refetch_page to retry", err)
	}
	return nil, toPageOutput(s.ports.Review.Resolve(ctx, ticket)), nil
}

func (s *Server) handleRefetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, PageOutput, error) {
	ticket := s.ports.Review.Refetch()
	page := s.ports.Review.Resolve(ctx, &ticket)
	if page.LoadErr != nil {
		return nil, PageOutput{}, fmt.Errorf("page %d: %w", page.Index+1, page.LoadErr)
	}
	return nil, toPageOutput(page), nil
}

func (s *Server) handleMarkUncorrected(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, PageOutput, error) {
	return nil, toPageOutput(s.ports.Review.MarkUncorrected(ctx)), nil
}

func (s *Server) handleExport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportInput,
) (*mcp.CallToolResult, ExportOutput, error) {
	format := domain.ExportFormat(input.Format)
	if format == "" {
		format = domain.ExportFormatJSON
	}
	artifact, err := s.ports.Review.Export(ctx, format)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{
		Format:     artifact.Format.String(),
		Location:   artifact.Location,
		Bytes:      artifact.Bytes,
		BlockCount: artifact.BlockCount,
	}, nil
}

func toPageOutput(page domain.Page) PageOutput {
	out := PageOutput{
		Index:  page.Index,
		State:  page.State.String(),
		Loaded: page.Loaded,
		Blocks: make([]BlockOutput, len(page.Blocks)),
	}
	if page.LoadErr != nil {
		out.LoadError = page.LoadErr.Error()
	}
	for i := range page.Blocks {
		b := &page.Blocks[i]
		out.Blocks[i] = BlockOutput{
			Position: i,
			ID:       b.ID,
			Type:     string(b.Type),
			Content:  previewContent(b),
			Caption:  b.Caption(),
		}
		if b.BoundingBox != nil {
			out.Blocks[i].Box = &BoxOut{
				Left:   b.BoundingBox.Left,
				Top:    b.BoundingBox.Top,
				Right:  b.BoundingBox.Right,
				Bottom: b.BoundingBox.Bottom,
			}
		}
	}
	return out
}

// previewContent truncates inline image payloads.
func previewContent(b *domain.Block) string {
	if !b.IsInlineImage() || len(b.Content) <= inlineImagePreview {
		return b.Content
	}
	return fmt.Sprintf("%s... (%d bytes)", b.Content[:inlineImagePreview], len(b.Content))
}
