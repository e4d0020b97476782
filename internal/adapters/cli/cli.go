package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"erp-sync/internal/app"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// ServiceFunc builds the application service on first use, so commands that
// never reach the backend do not need its configuration.
type ServiceFunc func() (app.ApplicationService, error)

// NewRootCommand wires every erpsync subcommand. Output goes to the
// command's out writer.
func NewRootCommand(service ServiceFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "erpsync",
		Short: "Sync and inspect ERP data against its REST backend",
		Long: `erpsync loads ERP resources from the REST backend into a local store and
keeps stock, document totals and numbering consistent.

Required environment variables:
  ERP_API_URL - base URL of the ERP REST backend`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var svc app.ApplicationService
	get := func() (app.ApplicationService, error) {
		if svc != nil {
			return svc, nil
		}
		s, err := service()
		if err != nil {
			return nil, err
		}
		svc = s
		return svc, nil
	}

	root.AddCommand(
		newLoadCommand(get),
		newNextNumberCommand(get),
		newStockCommand(get),
		newReportCommand(get),
		newQuotationCommand(get),
		newSchemaCommand(),
		newShellCommand(get),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
