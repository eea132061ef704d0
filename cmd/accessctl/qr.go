package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"equipment-access/internal/bootstrap"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/token"
)

var (
	qrOut     string
	qrSize    int
	qrToggle  bool
	qrTimeout time.Duration
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Render and scan QR codes carrying access tokens",
}

var qrRenderCmd = &cobra.Command{
	Use:   "render <person-id> <equipment-id>",
	Short: "Write the QR code of a token as PNG",
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
		png, err := qr.NewRenderer(qrSize).Render(encoded)
		if err != nil {
			return err
		}
		if qrOut == "" {
			qrOut = fmt.Sprintf("token_%d_%d.png", personID, equipmentID)
		}
		if err := os.WriteFile(qrOut, png, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), qrOut)
		return nil
	},
}

var qrScanCmd = &cobra.Command{
	Use:   "scan <image>...",
	Short: "Decode a token from images, optionally toggling its pair",
	Long: `Decode the first token found in the given images, in order.

With --toggle the token is debounced and toggled like a scan at the door.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := qr.NewFileFrameSource(args...)
		if !qrToggle {
			ctx, cancel := context.WithTimeout(cmd.Context(), qrTimeout)
			defer cancel()
			raw, err := qr.Scan(ctx, source, qr.NewDecoder(), 0)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		}

		return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
			request, err := c.Services.Scan.ScanAndToggle(cmd.Context(), source)
			if err != nil {
				return err
			}
			printRequest(cmd, request)
			return nil
		})
	},
}

func init() {
	qrRenderCmd.Flags().StringVarP(&qrOut, "out", "o", "", "output file (default token_<person>_<equipment>.png)")
	qrRenderCmd.Flags().IntVar(&qrSize, "size", 300, "image size in pixels")
	qrScanCmd.Flags().BoolVar(&qrToggle, "toggle", false, "toggle the decoded pair")
	qrScanCmd.Flags().DurationVar(&qrTimeout, "timeout", 30*time.Second, "give up after this long")
	qrCmd.AddCommand(qrRenderCmd, qrScanCmd)
	rootCmd.AddCommand(qrCmd)
}
