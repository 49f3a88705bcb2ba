package main

import (
	"fmt"
	"os"

	"classlift/internal/envelope"
	"classlift/internal/ir"
	"classlift/internal/lift"
	"classlift/internal/liftfail"

	"github.com/spf13/cobra"
)

var (
	liftMethodName string
)

var liftCmd = &cobra.Command{
	Use:   "lift <fixture.yaml>",
	Short: "Lift one method from a fixture document and dump its IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runLift,
}

func init() {
	rootCmd.AddCommand(liftCmd)
	liftCmd.Flags().StringVar(&liftMethodName, "method", "", "name of the method to lift (required if the fixture has more than one)")
}

func runLift(_ *cobra.Command, args []string) error {
	doc, err := envelope.LoadFile(args[0])
	if err != nil {
		return err
	}

	m, err := selectMethod(doc, liftMethodName)
	if err != nil {
		return err
	}

	im, err := m.ToInstrMethod()
	if err != nil {
		return err
	}

	lifted, err := lift.Lift(im)
	if err != nil {
		if f, ok := err.(*liftfail.Failure); ok && verbose {
			fmt.Fprintf(os.Stderr, "%+v\n", f)
		}
		return err
	}

	fmt.Printf("lifted %s.%s: %d operation(s), %d tracked expression(s), session %s\n",
		m.OwningClass, m.Name, len(lifted.Operations), len(lifted.Expressions), lifted.SessionID)
	for _, entry := range lifted.Operations {
		fmt.Printf("  [%d] %s\n", entry.Index, ir.Dump(entry.Op))
	}
	return nil
}

func selectMethod(doc *envelope.Document, name string) (envelope.Method, error) {
	if name != "" {
		for _, m := range doc.Methods {
			if m.Name == name {
				return m, nil
			}
		}
		return envelope.Method{}, fmt.Errorf("no method named %q in fixture", name)
	}
	if len(doc.Methods) != 1 {
		return envelope.Method{}, fmt.Errorf("fixture declares %d methods; pass --method to select one", len(doc.Methods))
	}
	return doc.Methods[0], nil
}
