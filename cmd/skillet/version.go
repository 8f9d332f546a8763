package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parakeetlabs/skillet/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		info := version.Get()
		if asJSON {
			encoded, err := info.JSON()
			if err != nil {
				return err
			}
			fmt.Println(encoded)
			return nil
		}
		fmt.Println(info.String())
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Print version as JSON")
}
