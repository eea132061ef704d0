package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"equipment-access/pkg/token"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Encode and decode access tokens",
}

var tokenEncodeCmd = &cobra.Command{
	Use:   "encode <person-id> <equipment-id>",
	Short: "Print the token for a person and a piece of equipment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		personID, equipmentID, err := parsePair(args)
		if err != nil {
			return err
		}
		encoded, err := token.Encode(personID, equipmentID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return nil
	},
}

var tokenDecodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "Print the person and equipment named by a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := token.Decode(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "person: %d\nequipment: %d\n", pair.PersonID, pair.EquipmentID)
		return nil
	},
}

func parsePair(args []string) (int64, int64, error) {
	personID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("person id %q: %w", args[0], err)
	}
	equipmentID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("equipment id %q: %w", args[1], err)
	}
	return personID, equipmentID, nil
}

func init() {
	tokenCmd.AddCommand(tokenEncodeCmd, tokenDecodeCmd)
	rootCmd.AddCommand(tokenCmd)
}
