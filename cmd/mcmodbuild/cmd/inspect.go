/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/ssargent/rilipak/pkg/oxfmt"
	"gopkg.in/yaml.v3"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mcmodbuild>",
	Short: "Print the content of a .mcmodbuild file",
	Long: `Decode a .mcmodbuild file and print it as YAML. With --raw the decoded
field values are listed in wire order instead, without rebuilding the recipe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		return inspectFile(cmd.OutOrStdout(), args[0], raw)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "List raw field values")
}

func inspectFile(w io.Writer, path string, raw bool) error {
	if !raw {
		b, err := modbuild.ReadFile(path)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("failed to print build: %w", err)
		}
		return enc.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var b *modbuild.ModBuild
	s := b.Structure()
	arch, values, err := oxfmt.Inspect(data, b.Header(), s)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "arch: %s\n", arch)
	for i, v := range values {
		fmt.Fprintf(w, "%s: %s\n", s.Fields[i].Name, v)
	}
	return nil
}
