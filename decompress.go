package lightcycler

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	// Unix compress (LZW), recognised only to be reported as unsupported.
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// Extensions that mark a compressed wrapper around the actual export.
var compressionExts = map[string]struct{}{
	".gz":  {},
	".bz2": {},
	".xz":  {},
	".zip": {},
}

// DetectDataType identifies compressed content from its leading bytes.
func DetectDataType(content []byte) DataType {
	if len(content) == 0 {
		return DataTypeInvalid
	}

Outer:
	for dt, sig := range byteCodeSigs {
		if len(content) < len(sig) {
			continue
		}
		for position := range sig {
			if content[position] != sig[position] {
				continue Outer
			}
		}
		return dt
	}

	return DataTypeNoCompression
}

// StripCompressionExt removes a trailing compression extension, so that
// "run.tsv.gz" is handled as "run.tsv".
func StripCompressionExt(path string) string {
	ext := filepath.Ext(path)
	if _, ok := compressionExts[strings.ToLower(ext)]; ok {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

// MaybeDecompress returns the decompressed content of path. Only paths with a
// compression extension are considered, since .xlsx workbooks are themselves
// zip archives and must be passed through untouched.
func MaybeDecompress(path string, content []byte) ([]byte, error) {
	if StripCompressionExt(path) == path {
		return content, nil
	}

	var r io.Reader
	var err error
	src := bytes.NewReader(content)

	switch DetectDataType(content) {
	case DataTypeGzip:
		r, err = gzip.NewReader(src)
	case DataTypeZip:
		zr := zipstream.NewReader(src)
		if _, err = zr.Next(); err == nil {
			r = zr
		}
	case DataTypeBZip2:
		r = bzip2.NewReader(src)
	case DataTypeXZ:
		r, err = xz.NewReader(src, 0)
	case DataTypeZ:
		return nil, fmt.Errorf("%s: Unix compress (.Z) files are not supported, recompress with gzip", path)
	default:
		return nil, fmt.Errorf("%s: extension says compressed, but the content is not a known compression format", path)
	}
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	return out, nil
}
