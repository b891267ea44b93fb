// rawdata imports qPCR exports and prints the combined raw data table, sorted
// by gene and date.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/lightcycler"
	_ "github.com/carbocation/lightcycler/compileinfoprint"
	"github.com/carbocation/lightcycler/export"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/session"
)

func main() {
	var inputs, xlsxFile string
	var asCSV, hist bool
	var bins int
	flag.StringVar(&inputs, "input", "", "Comma-separated list of .csv, .tsv, .txt, .xls or .xlsx files or directories. Optionally, may be google storage URLs (gs://). Further inputs may follow the flags.")
	flag.BoolVar(&asCSV, "csv", false, "Print comma-separated instead of tab-separated output")
	flag.BoolVar(&hist, "hist", false, "Print a histogram of all defined Cp values to stderr")
	flag.IntVar(&bins, "bins", 20, "Number of histogram bins")
	flag.StringVar(&xlsxFile, "xlsx", "", "Optional path of an .xlsx workbook to write the raw data sheet to")
	flag.Parse()

	paths := append(lightcycler.SplitList(inputs), flag.Args()...)
	if len(paths) == 0 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := lightcycler.StorageClientFor(ctx, paths)
	if err != nil {
		log.Fatalln(err)
	}

	s, _, err := session.Open(ctx, paths, importer.Options{Storage: client}, nil)
	if err != nil {
		log.Fatalln(err)
	}

	for _, g := range s.Table().Summary() {
		log.Printf("%s: %d Cp values (%d missing), min %.3f, max %.3f, mean %.3f\n", g.Gene, g.N, g.Missing, g.Min, g.Max, g.Mean)
	}

	if asCSV {
		err = export.WriteRawCSV(os.Stdout, s.Table())
	} else {
		err = export.WriteRawTSV(os.Stdout, s.Table())
	}
	if err != nil {
		log.Fatalln(err)
	}

	if hist {
		if err := printHistogram(s, bins); err != nil {
			log.Fatalln(err)
		}
	}

	if xlsxFile != "" {
		if err := export.SaveWorkbook(xlsxFile, export.Workbook{Table: s.Table()}); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote", xlsxFile)
	}
}

func printHistogram(s *session.Session, bins int) error {
	cps := make([]float64, 0, s.Table().Len())
	for _, row := range s.Table().Rows() {
		if row.CP.Valid {
			cps = append(cps, row.CP.Float64)
		}
	}
	if len(cps) == 0 {
		return fmt.Errorf("no defined Cp values to plot")
	}

	hist := histogram.Hist(bins, cps)
	return histogram.Fprint(os.Stderr, hist, histogram.Linear(60))
}
