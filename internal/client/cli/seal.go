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
	sealIn  string
	sealOut string
)

var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Encrypts a dotenv file value by value",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeal(sealIn, sealOut)
	},
}

func init() {
	sealCmd.Flags().StringVar(&sealIn, "in", ".env", "dotenv file to seal")
	sealCmd.Flags().StringVar(&sealOut, "out", ".env.sealed", "output file")
}

func runSeal(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	vars, err := envfile.Parse(string(data))
	if err != nil {
		return err
	}

	pw, err := GetPassword("Enter passphrase", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(bytes.TrimSpace(pw)) == 0 {
		return errors.New("passphrase must not be empty")
	}

	sealed, err := cryptox.SealVariables(vars, string(pw))
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(envfile.FormatSealed(sealed)), 0o600); err != nil {
		return err
	}

	fmt.Printf("%s sealed %d variables into %s\n", color.GreenString("✓"), len(sealed), out)
	return nil
}
