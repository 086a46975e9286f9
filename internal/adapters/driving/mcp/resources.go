package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/curator-cli/internal/wire"
)

const (
	// uriScheme is the custom URI scheme for Curator resources.
	uriScheme = "curator://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Review progress for the open document",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "document",
		Name:        "document",
		Description: "Reconciled block sequence across all visited pages",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{page}",
		Name:        "page-blocks",
		Description: "Blocks of one page in their current order",
		MIMEType:    "application/json",
	}, s.handlePageResource)
}

func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.statusOutput(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleDocumentResource returns the reconciled sequence in the export wire format.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := wire.Encode(s.ports.Review.Reconciled())
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func (s *Server) handlePageResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	index, ok := extractPageIndex(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	page, err := s.ports.Review.Page(index)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := wire.Encode(page.Blocks)
	if err != nil {
		return nil, fmt.Errorf("encoding page %d: %w", index, err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractPageIndex extracts the page index from a URI like curator://pages/{page}.
func extractPageIndex(uri string) (int, bool) {
	const prefix = uriScheme + "pages/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	index, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
