package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/weft-ml/weft/internal/autodiff"
	"github.com/weft-ml/weft/internal/backend/cpu"
	"github.com/weft-ml/weft/internal/nn"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the named-parameter table of the configured model",
	Long: `Builds the configured model, materializes its lazy layers with a
probe sample from the configured dataset, and prints every registered
parameter with its path and shape.`,
	RunE: runInspect,
}

func runInspect(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := loadData(cfg)
	if err != nil {
		return err
	}

	backend := autodiff.New(cpu.New())
	model := buildModel(cfg, backend)
	if err := materialize(model, data, backend); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSHAPE\tELEMENTS")

	var total int64
	for name, p := range nn.NamedParameters[backendT](model) {
		n := int64(p.Tensor().NumElements())
		total += n
		fmt.Fprintf(w, "%s\t%v\t%s\n", name, p.Tensor().Shape(), humanize.Comma(n))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%s trainable parameters (%s)\n",
		humanize.Comma(total), humanize.Bytes(uint64(total)*4))
	return nil
}
