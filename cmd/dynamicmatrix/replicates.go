package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/session"
)

// printReplicates prints one line per gene with the sample's replicate Cp
// values followed by their aggregate.
func printReplicates(s *session.Session, sample string) error {
	fmt.Fprintln(os.Stdout, strings.Join([]string{"Gene", "Count", "Mean", "Std", "Replicates"}, "\t"))

	for _, gene := range s.Matrix().Genes() {
		cell, err := s.Matrix().Cell(gene, sample)
		if err != nil {
			return err
		}

		replicates := s.Table().Replicates(gene, sample)
		if len(replicates) == 0 {
			continue
		}
		values := make([]string, 0, len(replicates))
		for _, cp := range replicates {
			if cp.Valid {
				values = append(values, frame.FormatFloat(cp))
			} else {
				values = append(values, "NA")
			}
		}

		fmt.Fprintf(os.Stdout, "%s\t%d\t%s\t%s\t%s\n",
			gene,
			cell.Count,
			frame.FormatFloat(dynmatrix.RoundNull(cell.Mean)),
			frame.FormatFloat(dynmatrix.RoundNull(cell.Std)),
			strings.Join(values, ","))
	}

	return nil
}
