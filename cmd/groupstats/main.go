// groupstats compares sample groups gene by gene: it prints the group means
// and errors of the per-sample Cp means, and the Holm adjusted p-values of
// pairwise Student t-tests between the active groups.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/carbocation/lightcycler"
	_ "github.com/carbocation/lightcycler/compileinfoprint"
	"github.com/carbocation/lightcycler/export"
	"github.com/carbocation/lightcycler/frame"
	"github.com/carbocation/lightcycler/groups"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/session"
)

func main() {
	var inputs, groupsFile, pngDir, inactive string
	flag.StringVar(&inputs, "input", "", "Comma-separated list of .csv, .tsv, .txt, .xls or .xlsx files or directories. Optionally, may be google storage URLs (gs://). Further inputs may follow the flags.")
	flag.StringVar(&groupsFile, "groups", "", "Tab-delimited file with group name and sample name columns. Not needed if a workbook input has a groups sheet.")
	flag.StringVar(&inactive, "inactive", "", "Comma-separated list of groups to leave out of the comparison")
	flag.StringVar(&pngDir, "png", "", "Optional directory for one means-and-errors bar chart per gene")
	flag.Parse()

	paths := append(lightcycler.SplitList(inputs), flag.Args()...)
	if len(paths) == 0 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := lightcycler.StorageClientFor(ctx, append([]string{groupsFile}, paths...))
	if err != nil {
		log.Fatalln(err)
	}

	s, _, err := session.Open(ctx, paths, importer.Options{Storage: client}, nil)
	if err != nil {
		log.Fatalln(err)
	}

	if groupsFile != "" {
		if err := readGroupsFile(ctx, groupsFile, client, s); err != nil {
			log.Fatalln(err)
		}
	}

	for _, name := range lightcycler.SplitList(inactive) {
		if err := s.SetActive(name, false); err != nil {
			log.Fatalln(err)
		}
	}

	active := groups.Names(s.Groups().Active())
	if len(active) == 0 {
		flag.PrintDefaults()
		log.Fatalln("No active groups. Provide a -groups file or a workbook with a groups sheet.")
	}
	log.Println("Comparing groups", strings.Join(active, ", "))
	if ungrouped := s.Groups().Ungrouped(s.Matrix().Samples()); len(ungrouped) > 0 {
		log.Println("Samples in no group:", strings.Join(ungrouped, ", "))
	}

	means, errs := s.MeansAndErrors()
	result := s.PairwiseTest()

	tables := []*frame.Frame{means, errs}
	for _, gene := range result.Genes {
		tables = append(tables, result.PValues[gene])
	}
	for _, t := range tables {
		fmt.Fprintf(os.Stdout, "# %s\n", t.Name)
		if err := export.WriteFrame(os.Stdout, t); err != nil {
			log.Fatalln(err)
		}
	}

	for _, skip := range result.Skipped {
		log.Printf("Gene %s was not tested: %s\n", skip.Gene, skip.Reason)
	}

	if pngDir != "" {
		if err := writeCharts(pngDir, means, errs); err != nil {
			log.Fatalln(err)
		}
	}
}

func writeCharts(dir string, means, errs *frame.Frame) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	names := export.NewNamer()
	for _, gene := range means.Index {
		path := filepath.Join(dir, names.Name(gene)+".png")
		f, err := os.Create(path)
		if err != nil {
			return err
		}

		err = export.MeansAndErrorsPNG(f, gene, means, errs)
		f.Close()
		if err == export.ErrNoData {
			os.Remove(path)
			continue
		} else if err != nil {
			return err
		}
		log.Println("Wrote", path)
	}

	return nil
}
