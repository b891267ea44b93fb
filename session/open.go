package session

import (
	"context"

	"github.com/carbocation/lightcycler/importer"
)

// Open imports paths into a new session. The import result is returned for
// its per-file failures and skipped records. A cancelled ctx returns the
// error without a session.
func Open(ctx context.Context, paths []string, opts importer.Options, progress func(done, total int)) (*Session, *importer.Result, error) {
	res, err := importer.Run(ctx, paths, opts, progress)
	if err != nil {
		return nil, res, err
	}

	s := New(opts.Logger)
	if err := s.Load(res); err != nil {
		return nil, res, err
	}

	return s, res, nil
}
