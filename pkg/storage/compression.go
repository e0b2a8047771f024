package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionCodec selects how a record's event bytes are compressed before
// CRC framing. The teacher ships three compression libraries for its HTTP
// sinks (pkg/compression/http_compressor.go); the append log reuses the
// same three so a deployment can pick whichever trades off CPU vs. size
// best for its terminal-output mix.
type CompressionCodec byte

const (
	CodecNone CompressionCodec = iota
	CodecZstd
	CodecSnappy
	CodecLZ4
)

func (c CompressionCodec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecSnappy:
		return "snappy"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// compressPayload prefixes a 1-byte codec tag and a 4-byte little-endian
// uncompressed length (the latter is redundant for zstd/snappy but is what
// lz4's block API needs to size its decompression buffer, so it is carried
// uniformly for every codec).
func compressPayload(codec CompressionCodec, raw []byte) ([]byte, error) {
	var compressed []byte
	switch codec {
	case CodecNone:
		compressed = raw
	case CodecZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("storage: zstd encoder: %w", err)
		}
		compressed = enc.EncodeAll(raw, nil)
		_ = enc.Close()
	case CodecSnappy:
		compressed = snappy.Encode(nil, raw)
	case CodecLZ4:
		bound := lz4.CompressBlockBound(len(raw))
		dst := make([]byte, bound)
		var c lz4.Compressor
		n, err := c.CompressBlock(raw, dst)
		if err != nil {
			return nil, fmt.Errorf("storage: lz4 compress: %w", err)
		}
		if n == 0 {
			// incompressible input: lz4 signals this by writing 0 bytes
			compressed = raw
			codec = CodecNone
		} else {
			compressed = dst[:n]
		}
	default:
		return nil, fmt.Errorf("storage: unknown compression codec %d", codec)
	}

	out := make([]byte, 1+4+len(compressed))
	out[0] = byte(codec)
	binary.LittleEndian.PutUint32(out[1:5], uint32(len(raw)))
	copy(out[5:], compressed)
	return out, nil
}

func decompressPayload(framed []byte) ([]byte, error) {
	if len(framed) < 5 {
		return nil, fmt.Errorf("storage: compressed payload too short")
	}
	codec := CompressionCodec(framed[0])
	rawLen := binary.LittleEndian.Uint32(framed[1:5])
	body := framed[5:]

	switch codec {
	case CodecNone:
		return body, nil
	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("storage: zstd decoder: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(body, make([]byte, 0, rawLen))
	case CodecSnappy:
		return snappy.Decode(make([]byte, 0, rawLen), body)
	case CodecLZ4:
		dst := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, fmt.Errorf("storage: lz4 decompress: %w", err)
		}
		return dst[:n], nil
	default:
		return nil, fmt.Errorf("storage: unknown compression codec %d", codec)
	}
}
