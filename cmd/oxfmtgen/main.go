/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/oxfmtgen"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oxfmtgen",
	Short: "Generate oxfmt encoders and decoders",
	Long: `oxfmtgen reads the Go files of a package and writes, for every type
annotated with //oxfmt:record or //oxfmt:enum, the MarshalOxfmt, Structure
and Construct methods the oxfmt package needs.

Use it from a go:generate directive:

  //go:generate go run github.com/ssargent/rilipak/cmd/oxfmtgen`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		out, _ := cmd.Flags().GetString("out")

		path, err := oxfmtgen.Run(oxfmtgen.Options{Dir: dir, Output: out})
		if err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringP("dir", "d", ".", "Package directory to scan")
	rootCmd.Flags().StringP("out", "o", oxfmtgen.DefaultOutput, "Name of the generated file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
