package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/obryan/passage/internal/cache"
	"github.com/obryan/passage/internal/config"
)

var cachePurgeHours int

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cachePurgeCmd.Flags().IntVar(&cachePurgeHours, "older-than", 0, "Only purge entries older than this many hours (default: config max_age_hours)")
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the translation cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache entry count",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Len(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%d cached translations\n", n)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete old cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		hours := cachePurgeHours
		if hours == 0 {
			hours = cfg.Cache.MaxAgeHours
		}

		store, err := cache.Open(cfg.CachePath())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(context.Background(), time.Duration(hours)*time.Hour)
		if err != nil {
			return err
		}
		fmt.Printf("purged %d entries older than %dh\n", n, hours)
		return nil
	},
}

func openCache() (*cache.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cache.Open(cfg.CachePath())
}
