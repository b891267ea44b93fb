package rawdata

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// LightCycler run exports are named like
// "2019-03-12 plate 2 RT1-2_GAPDH.PDF": run date, a free text part, the
// reverse transcription batch and the gene.
var fileNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}) .*(RT(?:1-2|1|2|3))_(\w+)\.\w+$`)

// FileInfo is what a LightCycler export's file name says about its contents.
type FileInfo struct {
	Date time.Time
	RT   string
	Gene string
}

// ParseFilename extracts the run date, RT batch and gene from a LightCycler
// export file name. Any directory part is ignored.
func ParseFilename(path string) (FileInfo, error) {
	base := filepath.Base(path)

	match := fileNamePattern.FindStringSubmatch(base)
	if match == nil {
		return FileInfo{}, fmt.Errorf("%s: invalid LightCycler file name", base)
	}

	date, err := time.Parse("2006-01-02", match[1])
	if err != nil {
		return FileInfo{}, fmt.Errorf("%s: %v", base, err)
	}

	return FileInfo{Date: date, RT: match[2], Gene: match[3]}, nil
}

// Words the instrument prefixes to sample names according to the well type.
var sampleNamePrefixes = map[string]struct{}{
	"standard": {},
	"control":  {},
	"sample":   {},
	"unknown":  {},
	"negative": {},
	"positive": {},
}

// CleanSampleName drops the well type word the instrument puts in front of
// sample names, and collapses whitespace.
func CleanSampleName(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 1 {
		if _, ok := sampleNamePrefixes[strings.ToLower(fields[0])]; ok {
			fields = fields[1:]
		}
	}

	return strings.Join(fields, " ")
}
