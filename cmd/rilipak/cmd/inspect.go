/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/pack"
	"gopkg.in/yaml.v3"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.rilipak>",
	Short: "Print the content of a .rilipak file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectPack(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type packSummary struct {
	Config *pack.PackConfig `yaml:"config"`
	Builds []string         `yaml:"builds"`
	Files  []string         `yaml:"files"`
}

func inspectPack(w io.Writer, path string) error {
	p, err := pack.ReadFile(path)
	if err != nil {
		return err
	}
	builds, err := p.Builds()
	if err != nil {
		return err
	}
	files, err := p.Files()
	if err != nil {
		return err
	}

	summary := packSummary{Config: &p.Meta.Config, Files: files}
	for _, b := range builds {
		summary.Builds = append(summary.Builds, fmt.Sprintf("%s (%s@%s)", b.ID, b.Git, b.Branch))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to print pack: %w", err)
	}
	return enc.Close()
}
