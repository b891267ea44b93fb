// dynamicmatrix prints the gene x sample aggregation of replicate Cp values:
// their means, their population standard deviations, or their counts.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/carbocation/lightcycler"
	_ "github.com/carbocation/lightcycler/compileinfoprint"
	"github.com/carbocation/lightcycler/dynmatrix"
	"github.com/carbocation/lightcycler/export"
	"github.com/carbocation/lightcycler/importer"
	"github.com/carbocation/lightcycler/session"
)

func main() {
	var inputs, view, sample string
	flag.StringVar(&inputs, "input", "", "Comma-separated list of .csv, .tsv, .txt, .xls or .xlsx files or directories. Optionally, may be google storage URLs (gs://). Further inputs may follow the flags.")
	flag.StringVar(&view, "view", "means", "Which matrix to print: means, stds or counts")
	flag.StringVar(&sample, "replicates", "", "Instead of the matrix, list the replicate Cp values of this sample for every gene")
	flag.Parse()

	paths := append(lightcycler.SplitList(inputs), flag.Args()...)
	if len(paths) == 0 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	v, err := dynmatrix.ParseView(view)
	if err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
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

	if sample != "" {
		if err := printReplicates(s, sample); err != nil {
			log.Fatalln(err)
		}
		return
	}

	log.Printf("%d genes x %d samples\n", len(s.Matrix().Genes()), len(s.Matrix().Samples()))

	if err := export.WriteFrame(os.Stdout, s.Matrix().View(v)); err != nil {
		log.Fatalln(err)
	}
}
