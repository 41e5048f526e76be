package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfarerhq/places-mcp/internal/cache"
	"github.com/wayfarerhq/places-mcp/internal/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the places cache",
	}

	client := func() (*cache.Client, error) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		return cache.NewClient(cfg.Socket), nil
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	var category string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries in a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if category == "" {
				return fmt.Errorf("--category is required")
			}
			c, err := client()
			if err != nil {
				return err
			}
			if err := c.ClearCategory(category); err != nil {
				return err
			}
			fmt.Printf("Cleared category %q.\n", category)
			return nil
		},
	}
	clearCmd.Flags().StringVar(&category, "category", "", "category to clear (e.g. places-search, place-photos, place-pages)")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a raw cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			v, err := c.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(string(v))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a single cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			if err := c.Delete(args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "placesctl.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd, getCmd, deleteCmd)
	return cmd
}
