package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/cryptox"
	"github.com/dberzins/envault/internal/envfile"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	openIn  string
	openOut string
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Decrypts a sealed dotenv file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpen(openIn, openOut)
	},
}

func init() {
	openCmd.Flags().StringVar(&openIn, "in", ".env.sealed", "sealed file to open")
	openCmd.Flags().StringVar(&openOut, "out", ".env", "output dotenv file")
}

func runOpen(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	parsed, err := envfile.Parse(string(data))
	if err != nil {
		return err
	}
	sealed := make([]cryptox.EncryptedVariable, 0, len(parsed))
	for _, v := range parsed {
		sealed = append(sealed, cryptox.EncryptedVariable{Name: v.Name, Encrypted: v.Value})
	}

	pw, err := GetPassword("Enter passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(bytes.TrimSpace(pw)) == 0 {
		return errors.New("passphrase must not be empty")
	}

	values := cryptox.OpenVariables(sealed, string(pw))
	if len(values) == 0 && len(sealed) > 0 {
		return errors.New("no variables could be decrypted, wrong passphrase?")
	}

	if failed := len(sealed) - len(values); failed > 0 {
		fmt.Printf("%s %d variables could not be decrypted and were skipped\n",
			color.YellowString("!"), failed)
	}

	if err := os.WriteFile(out, []byte(envfile.FormatValues(values)), 0o600); err != nil {
		return err
	}

	fmt.Printf("%s wrote %d variables to %s\n", color.GreenString("✓"), len(values), out)
	return nil
}
