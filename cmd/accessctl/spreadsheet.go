package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"equipment-access/internal/bootstrap"
)

var exportOut string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records from spreadsheets",
}

var importEquipmentCmd = &cobra.Command{
	Use:   "equipment <file.xlsx>",
	Short: "Provision equipment from an xlsx sheet",
	Long: `Provision equipment from an xlsx sheet.

The header row is located by its column names: kind, serial, brand, model,
status, maintenance_frequency, provider_id, image_url, os, ram_gb,
risk_class, calibration_cert. Failing rows are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			result, err := c.Services.Import.Import(cmd.Context(), file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created: %d, failed: %d\n", result.Created, len(result.Failed))
			for _, failed := range result.Failed {
				fmt.Fprintf(out, "  row %d: %s\n", failed.Row, failed.Error)
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to spreadsheets",
}

var exportAccessCmd = &cobra.Command{
	Use:   "access",
	Short: "Write the access log to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer file.Close()

		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			n, err := c.Services.Report.Export(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d access requests written to %s\n", n, exportOut)
			return nil
		})
	},
}

func init() {
	exportAccessCmd.Flags().StringVarP(&exportOut, "out", "o", "access_log.xlsx", "output file")
	importCmd.AddCommand(importEquipmentCmd)
	exportCmd.AddCommand(exportAccessCmd)
	rootCmd.AddCommand(importCmd, exportCmd)
}
