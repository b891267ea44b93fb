package lightcycler

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"google.golang.org/api/iterator"
)

// ReadInput returns the full, decompressed content of an input. The path can
// be local (with ~/ expansion), gs://bucket/object, or an http(s) URL. A nil
// client is only an error if the path is on Google Storage.
func ReadInput(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	var f io.ReadCloser

	switch {
	case strings.HasPrefix(path, "gs://"):
		if client == nil {
			return nil, fmt.Errorf("%s: no Google Storage client was configured", path)
		}
		bucket, object, err := splitGSPath(path)
		if err != nil {
			return nil, err
		}
		rdr, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
		}
		f = rdr

	case isHTTP(path):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, pfx.Err(err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, pfx.Err(err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%s: HTTP status %s", path, resp.Status)
		}
		f = resp.Body

	default:
		local, err := ExpandHome(path)
		if err != nil {
			return nil, err
		}
		file, err := os.Open(local)
		if err != nil {
			return nil, err
		}
		f = file
	}
	defer f.Close()

	content, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	return MaybeDecompress(path, content)
}

// ListInputs expands the given paths into the files to import. Local
// directories and gs:// paths ending in "/" are expanded one level deep;
// everything else is returned as is. Order follows the arguments, and within
// an expanded location, lexical order.
func ListInputs(ctx context.Context, paths []string, client *storage.Client) ([]string, error) {
	out := make([]string, 0, len(paths))

	for _, path := range paths {
		switch {
		case strings.HasPrefix(path, "gs://") && strings.HasSuffix(path, "/"):
			listed, err := listGSPrefix(ctx, path, client)
			if err != nil {
				return nil, err
			}
			out = append(out, listed...)

		case strings.HasPrefix(path, "gs://") || isHTTP(path):
			out = append(out, path)

		default:
			local, err := ExpandHome(path)
			if err != nil {
				return nil, err
			}
			info, err := os.Stat(local)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				out = append(out, local)
				continue
			}
			entries, err := ioutil.ReadDir(local)
			if err != nil {
				return nil, pfx.Err(err)
			}
			for _, e := range entries {
				if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
					continue
				}
				out = append(out, filepath.Join(local, e.Name()))
			}
		}
	}

	return out, nil
}

func listGSPrefix(ctx context.Context, path string, client *storage.Client) ([]string, error) {
	if client == nil {
		return nil, fmt.Errorf("%s: no Google Storage client was configured", path)
	}

	bucket, prefix, err := splitGSPath(path)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0)
	it := client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
		}

		// With a delimiter, "subdirectories" come back as prefixes only.
		if attrs.Name == "" || strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		out = append(out, fmt.Sprintf("gs://%s/%s", bucket, attrs.Name))
	}
	sort.Strings(out)

	return out, nil
}

func isHTTP(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func splitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}
