package main

import (
	"context"
	"fmt"

	"classlift/internal/envelope"
	"classlift/internal/instr"
	"classlift/internal/lift"
	"classlift/internal/liftfail"
	"classlift/internal/liveserver"

	"github.com/spf13/cobra"
)

var (
	batchConcurrency int
	batchNameFilter  string
	batchServeAddr   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <fixture.yaml>",
	Short: "Lift every method in a fixture document concurrently",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max methods lifted at once (0 = unlimited)")
	batchCmd.Flags().StringVar(&batchNameFilter, "filter", "", "glob over \"OwningClass.Name\" selecting which methods to lift")
	batchCmd.Flags().StringVar(&batchServeAddr, "serve", "", "if set, also broadcast results to a liveserver at this address")
}

func runBatch(cmd *cobra.Command, args []string) error {
	doc, err := envelope.LoadFile(args[0])
	if err != nil {
		return err
	}

	methods := make([]instr.Method, 0, len(doc.Methods))
	for _, m := range doc.Methods {
		im, err := m.ToInstrMethod()
		if err != nil {
			return err
		}
		methods = append(methods, im)
	}

	var live *liveserver.Server
	if batchServeAddr != "" {
		live = liveserver.New()
		errCh := live.ListenAndServe(batchServeAddr)
		defer live.Close()
		select {
		case err := <-errCh:
			return fmt.Errorf("liveserver: %w", err)
		default:
		}
	}

	results, err := lift.Batch(context.Background(), methods, lift.BatchOptions{
		Concurrency: batchConcurrency,
		NameFilter:  batchNameFilter,
	})
	if err != nil {
		return err
	}

	if live != nil {
		if err := live.BroadcastBatchResult(results); err != nil && verbose {
			fmt.Printf("liveserver broadcast: %v\n", err)
		}
	}

	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("FAIL %s.%s: %v\n", r.Method.OwningClass, r.Method.Name, r.Err)
			if live != nil {
				if f, ok := r.Err.(*liftfail.Failure); ok {
					_ = live.BroadcastFailure(r.Method.OwningClass+"."+r.Method.Name, f)
				}
			}
			continue
		}
		succeeded++
		fmt.Printf("OK   %s.%s: %d operation(s)\n", r.Method.OwningClass, r.Method.Name, len(r.Lifted.Operations))
	}
	fmt.Printf("%d succeeded, %d failed, %d total\n", succeeded, failed, len(results))
	return nil
}
