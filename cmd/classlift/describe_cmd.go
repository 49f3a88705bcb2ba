package main

import (
	"fmt"

	"classlift/internal/envelope"

	"github.com/spf13/cobra"
)

var describePath string

var describeCmd = &cobra.Command{
	Use:   "describe <fixture.yaml>",
	Short: "Pretty-print a fixture document, or extract one field with --path",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&describePath, "path", "", "gjson path to extract instead of the whole document, e.g. methods.0.instructions.3.op")
}

func runDescribe(_ *cobra.Command, args []string) error {
	doc, err := envelope.LoadFile(args[0])
	if err != nil {
		return err
	}

	if describePath != "" {
		blob, err := doc.JSON()
		if err != nil {
			return err
		}
		fmt.Println(envelope.Inspect(blob, describePath))
		return nil
	}

	pretty, err := envelope.PrettyJSON(doc)
	if err != nil {
		return err
	}
	fmt.Println(pretty)
	return nil
}
