package helpers

import (
	"fmt"
	"io"

	"github.com/zinc-sig/ghost-allure/internal/meta"
	"github.com/zinc-sig/ghost-allure/pkg/attachment"
)

// PrintMetadata prints the collected test metadata in verbose/dry-run mode
func PrintMetadata(w io.Writer, md *meta.Metadata, dryRun bool) {
	if md == nil || (len(md.Labels) == 0 && len(md.Parameters) == 0 && len(md.Links) == 0 && md.Description == "") {
		return
	}

	header := "Test Metadata"
	if dryRun {
		header = "Test Metadata (DRY RUN)"
	}

	_, _ = fmt.Fprintln(w, "========================================")
	_, _ = fmt.Fprintln(w, header)
	_, _ = fmt.Fprintln(w, "========================================")

	content, err := attachment.YAML(md).Content()
	if err != nil {
		_, _ = fmt.Fprintf(w, "  %+v\n", *md)
	} else {
		_, _ = fmt.Fprint(w, string(content))
	}

	_, _ = fmt.Fprintln(w, "----------------------------------------")
}
