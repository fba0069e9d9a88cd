/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/di"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the index of installed builds",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed builds, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bc, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer bc.Close()
		return listBuilds(cmd.OutOrStdout(), bc)
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an installed build from the index",
	Long: `Remove an entry from the build index. The installed jar and the cached
checkout are left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid build id %q: %w", args[0], err)
		}
		bc, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer bc.Close()

		if err := bc.Delete(id); err != nil {
			return err
		}
		cmd.Printf("Removed %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheRmCmd)
}

func openCache(cmd *cobra.Command) (di.BuildCache, error) {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return nil, err
	}
	return container.GetCacheOpener()(rt.cfg.CacheDir, rt.logger)
}

func listBuilds(w io.Writer, bc di.BuildCache) error {
	items, err := bc.List()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMOD\tBRANCH\tINSTALLED\tDIGEST\tARTIFACT")
	for _, item := range items {
		e := item.Entry
		digest := hex.EncodeToString(e.Digest)
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			e.Build.ID,
			e.Build.Branch,
			time.Unix(int64(e.InstalledAt), 0).UTC().Format(time.RFC3339),
			digest,
			e.Artifact,
		)
	}
	return tw.Flush()
}
