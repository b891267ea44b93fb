package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/lightcycler"
	"github.com/carbocation/lightcycler/session"
	"github.com/carbocation/pfx"
)

// readGroupsFile adds the group memberships listed in a two column, tab
// delimited file to s. A first line of "group", "sample" is a header.
func readGroupsFile(ctx context.Context, path string, client *storage.Client, s *session.Session) error {
	content, err := lightcycler.ReadInput(ctx, path, client)
	if err != nil {
		return err
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = lightcycler.DetermineDelimiter(content)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	lines, err := r.ReadAll()
	if err != nil {
		return pfx.Err(err)
	}

	for i, line := range lines {
		if len(line) < 2 {
			return fmt.Errorf("%s:%d: expected a group and a sample, got %q", path, i+1, line)
		}
		group, sample := strings.TrimSpace(line[0]), strings.TrimSpace(line[1])
		if i == 0 && strings.EqualFold(group, "group") && strings.EqualFold(sample, "sample") {
			continue
		}

		s.AddGroup(group)
		if err := s.AddSampleToGroup(group, sample); err != nil {
			return err
		}
	}

	return nil
}
