package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// textReport is a report with a line oriented rendering.
type textReport interface {
	WriteText(w io.Writer) error
}

// writeReport renders report in format to w.
func writeReport(w io.Writer, format string, report textReport) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	case "text":
		return report.WriteText(w)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// addDeliveryFlags registers the flags that control report publishing and storage.
func addDeliveryFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("publish", false, "Publish the report to NATS")
	cmd.Flags().String("nats-url", "", "NATS server URL (default from config)")
	cmd.Flags().Bool("store", false, "Save the report to the PostgreSQL report store")
}
