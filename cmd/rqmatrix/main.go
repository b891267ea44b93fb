// rqmatrix prints relative quantification ratios: the mean Cp of each gene of
// interest divided by the geometric mean of the reference genes, per sample
// and per active sample group.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/carbocation/lightcycler"
	_ "github.com/carbocation/lightcycler/compileinfoprint"
	"github.com/carbocation/lightcycler/export"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/session"
)

func main() {
	var inputs, references, interest string
	flag.StringVar(&inputs, "input", "", "Comma-separated list of .csv, .tsv, .txt, .xls or .xlsx files or directories. Optionally, may be google storage URLs (gs://). Further inputs may follow the flags.")
	flag.StringVar(&references, "reference", "", "Comma-separated list of reference genes. Added to those of any genes sheet.")
	flag.StringVar(&interest, "interest", "", "Comma-separated list of genes of interest. Added to those of any genes sheet.")
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

	s.AddReferences(lightcycler.SplitList(references)...)
	s.AddInterest(lightcycler.SplitList(interest)...)

	log.Println("Reference genes:", strings.Join(s.References(), ", "))
	log.Println("Genes of interest:", strings.Join(s.Interest(), ", "))
	if available := s.AvailableGenes(); len(available) > 0 {
		log.Println("Unused genes:", strings.Join(available, ", "))
	}

	bySample, err := s.RQ()
	if err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
	}
	fmt.Fprintf(os.Stdout, "# %s\n", bySample.Name)
	if err := export.WriteFrame(os.Stdout, bySample); err != nil {
		log.Fatalln(err)
	}

	if len(s.Groups().Active()) == 0 {
		return
	}

	byGroup, err := s.RQByGroup()
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Fprintf(os.Stdout, "# %s\n", byGroup.Name)
	if err := export.WriteFrame(os.Stdout, byGroup); err != nil {
		log.Fatalln(err)
	}
}
