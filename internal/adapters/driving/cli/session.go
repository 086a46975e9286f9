package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

var (
	statusJSON bool
	pagesJSON  bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show review progress for the current document",
	RunE:  runStatus,
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List pages with their correction state",
	Long: `List every page of the current document with its correction state and
block count. Pages that have not been visited yet show no block count.`,
	RunE: runPages,
}

var exportCmd = &cobra.Command{
	Use:   "export [format]",
	Short: "Export the reconciled document",
	Long: `Export the reconciled document. Corrected pages contribute their frozen
order; visited pages that are not corrected contribute their current order.

The format defaults to json. Run 'curator export --list' to see the
configured formats.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Discard the saved session and start over",
	RunE:  runDiscard,
}

var exportList bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	pagesCmd.Flags().BoolVar(&pagesJSON, "json", false, "output pages as JSON")
	exportCmd.Flags().BoolVar(&exportList, "list", false, "list configured formats")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(discardCmd)
}

// statusView is the JSON form of a session status.
type statusView struct {
	DocumentID        string `json:"document_id"`
	PageCount         int    `json:"page_count"`
	CurrentPage       int    `json:"current_page"`
	CorrectedPages    int    `json:"corrected_pages"`
	VisitedPages      int    `json:"visited_pages"`
	AllPagesCorrected bool   `json:"all_pages_corrected"`
	Saved             bool   `json:"saved"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	review, err := openReview(cmd.Context())
	if err != nil {
		return err
	}

	st := review.Status()
	if statusJSON {
		return printJSON(cmd, statusView{
			DocumentID:        st.DocumentID,
			PageCount:         st.PageCount,
			CurrentPage:       st.CurrentPage + 1,
			CorrectedPages:    st.CorrectedPages,
			VisitedPages:      st.VisitedPages,
			AllPagesCorrected: st.AllPagesCorrected,
			Saved:             st.Saved,
		})
	}

	cmd.Printf("Document:  %s\n", st.DocumentID)
	if st.PageCount == 0 {
		cmd.Println("Pages:     none")
		return nil
	}
	cmd.Printf("Page:      %d of %d\n", st.CurrentPage+1, st.PageCount)
	cmd.Printf("Corrected: %d of %d\n", st.CorrectedPages, st.PageCount)
	cmd.Printf("Visited:   %d\n", st.VisitedPages)
	saved := "no"
	if st.Saved {
		saved = "yes"
	}
	cmd.Printf("Exported:  %s\n", saved)
	if st.AllPagesCorrected {
		cmd.Println()
		cmd.Println("All pages corrected. Run 'curator export' to write the result.")
	}
	return nil
}

// pageView is the JSON form of one page summary.
type pageView struct {
	Page   int    `json:"page"`
	State  string `json:"state"`
	Loaded bool   `json:"loaded"`
	Blocks int    `json:"blocks"`
}

func runPages(cmd *cobra.Command, _ []string) error {
	review, err := openReview(cmd.Context())
	if err != nil {
		return err
	}

	st := review.Status()
	views := make([]pageView, 0, st.PageCount)
	for i := 0; i < st.PageCount; i++ {
		page, err := review.Page(i)
		if err != nil {
			return fmt.Errorf("reading page %d: %w", i+1, err)
		}
		views = append(views, pageView{
			Page:   i + 1,
			State:  page.State.String(),
			Loaded: page.Loaded,
			Blocks: len(page.Blocks),
		})
	}

	if pagesJSON {
		return printJSON(cmd, views)
	}

	if len(views) == 0 {
		cmd.Println("No pages.")
		return nil
	}
	for _, v := range views {
		marker := " "
		if v.Page-1 == st.CurrentPage {
			marker = ">"
		}
		blocks := "-"
		if v.Loaded {
			blocks = fmt.Sprintf("%d blocks", v.Blocks)
		}
		cmd.Printf("%s %4d  %-11s  %s\n", marker, v.Page, v.State, blocks)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	review, err := openReview(cmd.Context())
	if err != nil {
		return err
	}

	if exportList {
		for _, f := range review.Formats() {
			cmd.Println(f.String())
		}
		return nil
	}

	format := domain.ExportFormatJSON
	if len(args) == 1 {
		format = domain.ExportFormat(strings.ToLower(args[0]))
	}

	artifact, err := review.Export(cmd.Context(), format)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			return fmt.Errorf("%w (available: %s)", err, joinFormats(review.Formats()))
		}
		return err
	}

	cmd.Printf("Exported %d blocks as %s to %s\n", artifact.BlockCount, artifact.Format, artifact.Location)
	return nil
}

func runDiscard(cmd *cobra.Command, _ []string) error {
	review, err := openReview(cmd.Context())
	if err != nil {
		return err
	}
	if err := review.Discard(cmd.Context()); err != nil {
		return fmt.Errorf("discarding session: %w", err)
	}
	cmd.Println("Session discarded.")
	return nil
}

func joinFormats(formats []domain.ExportFormat) string {
	if len(formats) == 0 {
		return "none"
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
