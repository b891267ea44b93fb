// Package importer loads qPCR raw data, sample groups and gene lists from
// delimited text, .xls and .xlsx files, locally or on Google Storage.
package importer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/lightcycler"
	"github.com/carbocation/lightcycler/groups"
	"github.com/carbocation/lightcycler/rawdata"
)

// Options configure a run. A nil Storage client only matters for gs://
// inputs. A nil Logger means log.Default().
type Options struct {
	Storage *storage.Client
	Logger  *log.Logger
}

// FileError is a file that could not be imported at all.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// Result is everything a run loaded. Groups is nil unless some workbook had
// a groups sheet.
type Result struct {
	Table      *rawdata.Table
	Groups     *groups.Assignment
	References []string
	Interest   []string

	Loaded int
	Total  int

	Failed  []*FileError
	Skipped []*rawdata.ParseError
}

func newResult() *Result {
	return &Result{Table: rawdata.New()}
}

// Run imports paths one after the other. Directories and gs:// prefixes
// ending in "/" are expanded first. progress, if not nil, is called after
// each file with the number of files handled so far. When ctx is cancelled
// no further file is started and the partial result is returned along with
// ctx.Err(). Files that fail are recorded in Result.Failed and do not stop
// the run.
func Run(ctx context.Context, paths []string, opts Options, progress func(done, total int)) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	files, err := lightcycler.ListInputs(ctx, paths, opts.Storage)
	if err != nil {
		return nil, err
	}

	res := newResult()
	res.Total = len(files)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			logger.Printf("Import cancelled after %d of %d files\n", i, len(files))
			return res, err
		}

		if err := importFile(ctx, path, opts, res); err != nil {
			logger.Printf("Could not import %s: %v\n", path, err)
			res.Failed = append(res.Failed, &FileError{Path: path, Err: err})
		} else {
			res.Loaded++
		}

		if progress != nil {
			progress(i+1, len(files))
		}
	}

	for _, perr := range res.Skipped {
		logger.Println("Skipped record:", perr)
	}
	logger.Printf("Loaded successfully %d files out of %d\n", res.Loaded, res.Total)

	return res, nil
}

func importFile(ctx context.Context, path string, opts Options, res *Result) error {
	content, err := lightcycler.ReadInput(ctx, path, opts.Storage)
	if err != nil {
		return err
	}

	sheets, err := ReadSheets(path, content)
	if err != nil {
		return err
	}

	return res.add(path, sheets)
}

// ReadSheets parses decompressed file content according to the extension
// of path.
func ReadSheets(path string, content []byte) ([]Sheet, error) {
	switch ext := strings.ToLower(filepath.Ext(lightcycler.StripCompressionExt(path))); ext {
	case ".csv", ".tsv", ".txt":
		return readText(content)
	case ".xlsx", ".xlsm":
		return readXLSX(content)
	case ".xls":
		return readXLS(content)
	default:
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
}

// add merges the sheets of one file into res. Nothing is merged if the raw
// data sheet is unusable.
func (res *Result) add(path string, sheets []Sheet) error {
	var raw, groupSheet, geneSheet *Sheet
	for i := range sheets {
		switch strings.ToLower(strings.TrimSpace(sheets[i].Name)) {
		case SheetRawData:
			raw = &sheets[i]
		case SheetGroups:
			groupSheet = &sheets[i]
		case SheetGenes:
			geneSheet = &sheets[i]
		}
	}
	if raw == nil && len(sheets) > 0 && groupSheet != &sheets[0] && geneSheet != &sheets[0] {
		raw = &sheets[0]
	}

	var block *rawBlock
	if raw != nil {
		var err error
		if block, err = parseRaw(lightcycler.StripCompressionExt(path), *raw); err != nil {
			return err
		}
	}

	if groupSheet != nil {
		if res.Groups == nil {
			res.Groups = groups.New()
		}
		if err := parseGroups(*groupSheet, res.Groups); err != nil {
			return err
		}
	}

	if geneSheet != nil {
		refs, interest := parseGenes(*geneSheet)
		res.References = appendUnique(res.References, refs...)
		res.Interest = appendUnique(res.Interest, interest...)
	}

	if block != nil {
		res.Table.AddColumns(block.columns...)
		for i, rec := range block.records {
			res.Skipped = append(res.Skipped, res.Table.AppendRecords(path, block.lines[i], []rawdata.Record{rec})...)
		}
	}

	return nil
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
