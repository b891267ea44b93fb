// Package lightcycler holds the I/O helpers shared by the qPCR tools: reading
// inputs from local disk, Google Storage or HTTP, transparent decompression,
// and delimiter sniffing for delimited text exports.
//
// The analysis itself lives in the subpackages: rawdata, dynmatrix, groups,
// groupstats and rq.
package lightcycler
