package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gradlemeta/internal/application/dto"
)

// newScanCmd implements: gradlemeta scan --dir project [--kind all] [--concurrency 4] [--publish] [--store].
func (a *app) newScanCmd() *cobra.Command {
	var dir string
	var kind string

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Extract metadata from every script of a multi-project build",
		Long: `Read the settings script of a project directory, then extract the root build
script and the build script of every included subproject. Script plugins
applied with "apply from:" are extracted too, and buildSrc and every
includeBuild directory are scanned as builds of their own. Subprojects without
a build script are reported as skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runScan(cmd, dir, kind)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")
	cmd.Flags().StringVarP(&kind, "kind", "k", dto.KindAll,
		fmt.Sprintf("Records to report (%s)", strings.Join(dto.Kinds(), ", ")))
	cmd.Flags().Int("concurrency", 4, "Build scripts extracted in parallel")
	addDeliveryFlags(cmd)

	return cmd
}

func (a *app) runScan(cmd *cobra.Command, dir, kind string) error {
	ctx := cmd.Context()
	svc, err := a.newService()
	if err != nil {
		return err
	}

	report, err := svc.ScanProject(ctx, dir)
	if err != nil {
		return err
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
