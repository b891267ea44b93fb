package lightcycler

import (
	"context"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// StorageClientFor returns a Google Storage client if any of paths is a
// gs:// path, and nil otherwise, so that purely local runs need no
// credentials.
func StorageClientFor(ctx context.Context, paths []string) (*storage.Client, error) {
	for _, path := range paths {
		if strings.HasPrefix(path, "gs://") {
			client, err := storage.NewClient(ctx)
			if err != nil {
				return nil, pfx.Err(err)
			}
			return client, nil
		}
	}

	return nil, nil
}

// SplitList splits a comma separated flag value, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
