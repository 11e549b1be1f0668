package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/wbrown/janus-pdb/pdb"
)

// ErrCorruptTable is returned when a stored table cannot be decoded
var ErrCorruptTable = errors.New("corrupt distance table")

const (
	tableMagic   = "PDBT"
	tableVersion = 1
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// EncodeTable serializes a distance table.
//
// Layout before compression: magic, version byte, uvarint slot count, then
// one uvarint per slot holding 0 for pdb.Infinity and d+1 otherwise.
func EncodeTable(distances []int) []byte {
	raw := make([]byte, 0, len(tableMagic)+1+binary.MaxVarintLen64*(len(distances)+1))
	raw = append(raw, tableMagic...)
	raw = append(raw, tableVersion)
	raw = binary.AppendUvarint(raw, uint64(len(distances)))
	for _, d := range distances {
		if pdb.IsFinite(d) {
			raw = binary.AppendUvarint(raw, uint64(d)+1)
		} else {
			raw = binary.AppendUvarint(raw, 0)
		}
	}

	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(raw, nil)
}

// DecodeTable reverses EncodeTable
func DecodeTable(data []byte) ([]int, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTable, err)
	}

	if len(raw) < len(tableMagic)+1 || string(raw[:len(tableMagic)]) != tableMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptTable)
	}
	if v := raw[len(tableMagic)]; v != tableVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptTable, v)
	}
	raw = raw[len(tableMagic)+1:]

	count, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad slot count", ErrCorruptTable)
	}
	raw = raw[n:]
	// Every slot takes at least one byte.
	if count > uint64(len(raw)) {
		return nil, fmt.Errorf("%w: %d slots declared, %d bytes left", ErrCorruptTable, count, len(raw))
	}

	distances := make([]int, count)
	for i := range distances {
		v, n := binary.Uvarint(raw)
		if n <= 0 {
			return nil, fmt.Errorf("%w: bad slot %d", ErrCorruptTable, i)
		}
		raw = raw[n:]
		switch {
		case v == 0:
			distances[i] = pdb.Infinity
		case v-1 >= uint64(pdb.Infinity):
			return nil, fmt.Errorf("%w: slot %d holds out-of-range distance %d", ErrCorruptTable, i, v-1)
		default:
			distances[i] = int(v - 1)
		}
	}
	if len(raw) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptTable, len(raw))
	}
	return distances, nil
}
