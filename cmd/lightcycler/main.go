// lightcycler imports qPCR exports and writes a single .xlsx workbook with
// the raw data, the aggregation matrices, the group statistics and the
// relative quantification.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/carbocation/lightcycler"
	_ "github.com/carbocation/lightcycler/compileinfoprint"
	"github.com/carbocation/lightcycler/export"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/session"
)

func main() {
	var inputs, output, references, interest, pngDir string
	flag.StringVar(&inputs, "input", "", "Comma-separated list of .csv, .tsv, .txt, .xls or .xlsx files or directories. Optionally, may be google storage URLs (gs://). Further inputs may follow the flags.")
	flag.StringVar(&output, "output", "", "Path of the .xlsx workbook to write")
	flag.StringVar(&references, "reference", "", "Comma-separated list of reference genes, in addition to those of any genes sheet")
	flag.StringVar(&interest, "interest", "", "Comma-separated list of genes of interest, in addition to those of any genes sheet")
	flag.StringVar(&pngDir, "png", "", "Optional directory for one means-and-errors bar chart per gene")
	flag.Parse()

	paths := append(lightcycler.SplitList(inputs), flag.Args()...)
	if len(paths) == 0 || output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	output, err := lightcycler.ExpandHome(output)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := lightcycler.StorageClientFor(ctx, paths)
	if err != nil {
		log.Fatalln(err)
	}

	progress := func(done, total int) {
		log.Printf("Imported %d/%d files\n", done, total)
	}

	s, res, err := session.Open(ctx, paths, importer.Options{Storage: client}, progress)
	if err != nil {
		log.Fatalln(err)
	}
	if res.Loaded == 0 {
		log.Fatalln("Nothing was imported")
	}

	s.AddReferences(lightcycler.SplitList(references)...)
	s.AddInterest(lightcycler.SplitList(interest)...)

	wb := s.Workbook()
	if err := export.SaveWorkbook(output, wb); err != nil {
		log.Fatalln(err)
	}
	log.Println("Wrote", output)

	if pngDir == "" || wb.GroupMeans == nil {
		return
	}
	if err := os.MkdirAll(pngDir, 0755); err != nil {
		log.Fatalln(err)
	}
	names := export.NewNamer()
	for _, gene := range wb.GroupMeans.Index {
		path := filepath.Join(pngDir, names.Name(gene)+".png")
		if err := writeChart(path, gene, wb); err != nil {
			log.Println("No chart for", gene+":", err)
		}
	}
}

func writeChart(path, gene string, wb export.Workbook) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return export.MeansAndErrorsPNG(f, gene, wb.GroupMeans, wb.GroupErrors)
}
