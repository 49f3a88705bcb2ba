package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"classlift/internal/liveserver"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a websocket server broadcasting lift diagnostics until interrupted",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8765", "address to listen on")
}

func runServe(_ *cobra.Command, _ []string) error {
	s := liveserver.New()
	errCh := s.ListenAndServe(serveAddr)
	defer s.Close()

	fmt.Printf("classlift serve: listening on ws://%s/events\n", serveAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
		fmt.Println("classlift serve: shutting down")
		return nil
	}
}
