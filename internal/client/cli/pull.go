package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dberzins/envault/internal/netx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	pullKey string
	pullOut string
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Downloads a sealed snapshot from the server's object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPull(pullKey, pullOut)
	},
}

func init() {
	pullCmd.Flags().StringVar(&pullKey, "key", "", "storage key returned by push")
	pullCmd.Flags().StringVar(&pullOut, "out", ".env.sealed", "output file")
}

func runPull(key, out string) error {
	if key == "" {
		return errors.New("key required")
	}

	client, err := login()
	if err != nil {
		return err
	}

	url, err := client.PresignDownload(key)
	if err != nil {
		return err
	}

	data, err := netx.DownloadFromS3PresignedURL(url)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o600); err != nil {
		return err
	}

	fmt.Printf("%s downloaded %s to %s\n", color.GreenString("✓"), key, out)
	return nil
}
