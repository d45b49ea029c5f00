package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gradlemeta/internal/application/dto"
)

// stdinName is the file argument that reads the script from standard input.
const stdinName = "-"

// newExtractCmd implements: gradlemeta extract --file build.gradle [--kind all] [--format json] [--publish] [--store].
func (a *app) newExtractCmd() *cobra.Command {
	var filePath string
	var kind string

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract metadata from a single build or settings script",
		Long: `Extract dependencies, plugins, repositories, ext properties, included
subprojects, applied script plugins, included builds and the location of the
dependencies block from one script. Use "-" to read the script from standard
input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				filePath = args[0]
			}
			if strings.TrimSpace(filePath) == "" {
				return errors.New("a script is required: pass --file or a path argument")
			}
			return a.runExtract(cmd, filePath, kind)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Path of the script to read")
	cmd.Flags().StringVarP(&kind, "kind", "k", dto.KindAll,
		fmt.Sprintf("Records to report (%s)", strings.Join(dto.Kinds(), ", ")))
	addDeliveryFlags(cmd)

	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, filePath, kind string) error {
	ctx := cmd.Context()
	svc, err := a.newService()
	if err != nil {
		return err
	}

	var report *dto.ScriptReport
	if filePath == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		report, err = svc.ExtractSource(ctx, "stdin", string(data))
		if err != nil {
			return err
		}
	} else {
		report, err = svc.ExtractScript(ctx, filePath)
		if err != nil {
			return err
		}
	}

	selected, err := report.Select(kind)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), a.cfg.Output.Format, selected); err != nil {
		return err
	}
	return a.deliver(ctx, selected)
}
