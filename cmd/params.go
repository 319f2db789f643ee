package cmd

import (
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the physical and simulation parameters with their derived values",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ip, err := loadParameters()
		if err != nil {
			return
		}
		ip.Print()
		return
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}
