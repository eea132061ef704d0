package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"equipment-access/internal/bootstrap"
	"equipment-access/internal/entities"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <token>",
	Short: "Append the opposite of the latest ENTRY/EXIT for the token's pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			request, err := c.Services.Toggle.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRequest(cmd, request)
			return nil
		})
	},
}

func printRequest(cmd *cobra.Command, r *entities.AccessRequest) {
	fmt.Fprintf(cmd.OutOrStdout(), "#%d %s person=%d equipment=%d at %s purpose=%q\n",
		r.ID, r.Type, r.PersonID, r.EquipmentID, r.RequestedAt.Format(time.RFC3339Nano), r.Purpose)
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
