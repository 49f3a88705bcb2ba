package main

import (
	"fmt"
	"time"

	"classlift/internal/cache"
	"classlift/internal/envelope"
	"classlift/internal/lift"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cachePath string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or populate the lift-result summary cache",
}

var cacheStatCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print aggregate statistics about the cache",
	RunE:  runCacheStat,
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm <fixture.yaml>",
	Short: "Lift every method in a fixture and store its summary in the cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheWarm,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.PersistentFlags().StringVar(&cachePath, "db", "classlift-cache.sqlite", "path to the cache database")
	cacheCmd.AddCommand(cacheStatCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
}

func runCacheStat(_ *cobra.Command, _ []string) error {
	c, err := cache.Open(cachePath)
	if err != nil {
		return err
	}
	defer c.Close()

	now := time.Now()
	stats, err := c.Stat(now)
	if err != nil {
		return err
	}

	if stats.Entries == 0 {
		fmt.Println("cache is empty")
		return nil
	}
	fmt.Printf("%d entries, %s total operations, newest %s old, oldest %s old\n",
		stats.Entries, humanize.Comma(stats.TotalOps), humanize.RelTime(now.Add(-stats.NewestAge), now, "", ""), humanize.RelTime(now.Add(-stats.OldestAge), now, "", ""))
	return nil
}

func runCacheWarm(_ *cobra.Command, args []string) error {
	doc, err := envelope.LoadFile(args[0])
	if err != nil {
		return err
	}

	c, err := cache.Open(cachePath)
	if err != nil {
		return err
	}
	defer c.Close()

	now := time.Now()
	for _, m := range doc.Methods {
		im, err := m.ToInstrMethod()
		if err != nil {
			return err
		}
		digest := cache.Digest(im, m.Descriptor)

		start := time.Now()
		lifted, err := lift.Lift(im)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("SKIP %s.%s: %v\n", m.OwningClass, m.Name, err)
			continue
		}

		summary := cache.Summarize(im, m.Descriptor, lifted, elapsed, now)
		if err := c.Store(digest, summary); err != nil {
			return err
		}
		fmt.Printf("warmed %s.%s: %d op(s) in %s\n", m.OwningClass, m.Name, summary.OpCount, elapsed)
	}
	return nil
}
