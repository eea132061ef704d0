package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"equipment-access/internal/bootstrap"
	"equipment-access/seeders"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load persons, providers, equipment and initial entries from a YAML fixture",
	Long: `Load a YAML fixture through the services.

Without --file the bundled example fixture is used. Records that already
exist are skipped, so the command can be re-run safely.

Example:
  accessctl seed --file fixtures/hospital.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := loadFixture()
		if err != nil {
			return err
		}
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			report, err := seeders.Apply(cmd.Context(), fixture, c.Services, c.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "persons: %d, providers: %d, equipment: %d, initial entries: %d\n",
				report.Persons, report.Providers, report.Equipment, report.Entries)
			return nil
		})
	},
}

func loadFixture() (*seeders.Fixture, error) {
	if seedFile == "" {
		return seeders.Load(bytes.NewReader(seeders.Example))
	}
	return seeders.LoadFile(seedFile)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture to load")
	rootCmd.AddCommand(seedCmd)
}
