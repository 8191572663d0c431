package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/dll/internal/app"
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/ui/output"
	"go.trai.ch/dll/internal/ui/style"
)

type checkReport struct {
	Stale   bool           `json:"stale"`
	Bundles []bundleReport `json:"bundles"`
}

type bundleReport struct {
	Name        string             `json:"name"`
	Stale       bool               `json:"stale"`
	Reason      domain.StaleReason `json:"reason"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Packages    []string           `json:"packages"`
}

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which bundles are stale without rebuilding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			exitCode, _ := cmd.Flags().GetBool("exit-code")

			res, err := c.app.Check(cmd.Context(), app.CheckOptions{ConfigPath: c.configPath})
			if err != nil {
				return err
			}

			report := newCheckReport(res.Verdicts)
			if asJSON {
				err = writeJSONReport(cmd.OutOrStdout(), report)
			} else {
				err = writeTextReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}

			if exitCode && report.Stale {
				return domain.ErrStaleBundles
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the report as JSON")
	cmd.Flags().Bool("exit-code", false, "Exit with status 1 when any bundle is stale")

	return cmd
}

func newCheckReport(verdicts []domain.Verdict) checkReport {
	report := checkReport{Bundles: make([]bundleReport, 0, len(verdicts))}
	for _, v := range verdicts {
		report.Stale = report.Stale || v.Stale
		report.Bundles = append(report.Bundles, bundleReport{
			Name:        v.Bundle.Name,
			Stale:       v.Stale,
			Reason:      v.Reason,
			Fingerprint: v.Fingerprint,
			Packages:    v.Bundle.CanonicalPackages(),
		})
	}
	return report
}

func writeJSONReport(w io.Writer, report checkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTextReport(w io.Writer, report checkReport) error {
	out := output.New(w)

	width := 0
	for _, b := range report.Bundles {
		width = max(width, len(b.Name))
	}

	for _, b := range report.Bundles {
		glyph, color := style.BundleStatus(b.Stale)
		icon := out.String(glyph).Foreground(termenv.RGBColor(string(color)))
		name := out.String(fmt.Sprintf("%-*s", width, b.Name)).Foreground(termenv.RGBColor(string(style.Iris)))
		reason := out.String(string(b.Reason)).Foreground(termenv.RGBColor(string(style.Slate)))
		if _, err := fmt.Fprintf(w, "%s %s  %s\n", icon, name, reason); err != nil {
			return err
		}
	}
	return nil
}
