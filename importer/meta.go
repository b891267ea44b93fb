package importer

import (
	"strings"

	"github.com/carbocation/lightcycler/groups"
)

// Sheet names written by the exporter and recognised on import.
const (
	SheetRawData = "raw data"
	SheetGroups  = "groups"
	SheetGenes   = "genes"
)

// InactiveSuffix marks a group header in a groups sheet whose group is
// switched off.
const InactiveSuffix = " (inactive)"

// Header names of the two gene list columns. "control" and "test" are the
// older spellings.
const (
	GenesReference = "reference"
	GenesInterest  = "interest"
)

// parseGroups reads a groups sheet: one column per group, header is the
// group name, members below. Groups are added to a in column order.
func parseGroups(sheet Sheet, a *groups.Assignment) error {
	if len(sheet.Rows) == 0 {
		return nil
	}

	header := sheet.Rows[0]
	for col, h := range header {
		name := strings.TrimSpace(h)
		active := true
		if strings.HasSuffix(name, InactiveSuffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, InactiveSuffix))
			active = false
		}
		if name == "" {
			continue
		}

		a.AddGroup(name)
		for _, row := range sheet.Rows[1:] {
			if col >= len(row) {
				continue
			}
			sample := strings.TrimSpace(row[col])
			if sample == "" {
				continue
			}
			if err := a.AddSampleToGroup(name, sample); err != nil {
				return err
			}
		}
		if err := a.SetActive(name, active); err != nil {
			return err
		}
	}

	return nil
}

// parseGenes reads a genes sheet with a reference and an interest column.
func parseGenes(sheet Sheet) (references, interest []string) {
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	refCol, intCol := -1, -1
	for i, h := range sheet.Rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case GenesReference, "control":
			refCol = i
		case GenesInterest, "test":
			intCol = i
		}
	}

	column := func(col int) []string {
		if col < 0 {
			return nil
		}
		var out []string
		for _, row := range sheet.Rows[1:] {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				out = append(out, strings.TrimSpace(row[col]))
			}
		}
		return out
	}

	return column(refCol), column(intCol)
}
