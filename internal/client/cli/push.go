package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dberzins/envault/internal/client/api"
	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/netx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var pushIn string

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Uploads a sealed snapshot to the server's object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPush(pushIn)
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushIn, "in", ".env.sealed", "sealed file to upload")
}

// login prompts for credentials and returns an authenticated client.
func login() (*api.Client, error) {
	reader := bufio.NewReader(os.Stdin)

	email, err := GetSimpleText(reader, "Email", os.Stdout)
	if err != nil {
		return nil, err
	}
	pw, err := GetPassword("Password", os.Stdout)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pw)

	client := api.NewClient(serverAddr)
	if err := client.Login(email, string(pw)); err != nil {
		return nil, err
	}
	return client, nil
}

func runPush(in string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	client, err := login()
	if err != nil {
		return err
	}

	key, url, err := client.PresignUpload()
	if err != nil {
		return err
	}

	if err := netx.UploadToS3PresignedURL(url, data); err != nil {
		return err
	}

	fmt.Printf("%s uploaded %s as %s\n", color.GreenString("✓"), in, key)
	fmt.Printf("%s keep the key, you need it to pull the snapshot back\n", color.CyanString("→"))
	return nil
}
