package undo

import (
	"encoding/binary"
	"fmt"
)

const (
	tagAbsent  = 0x00
	tagPresent = 0x01
)

// encode serializes a list of undo entries as:
//
//	varint(count) ‖ count * [varint(len(key)) ‖ key ‖ tag ‖ [varint(len(value)) ‖ value]]
//
// tag is tagAbsent (key had no prior value) or tagPresent. This replaces the
// original indexer's Python repr()-of-a-tuple-list encoding with an
// unambiguous length-prefixed binary framing, per core spec §4.6.3.
func encode(entries []entry) []byte {
	buf := make([]byte, 0, 64)
	buf = appendUvarint(buf, uint64(len(entries)))
	for _, e := range entries {
		buf = appendUvarint(buf, uint64(len(e.key)))
		buf = append(buf, e.key...)
		if !e.had {
			buf = append(buf, tagAbsent)
			continue
		}
		buf = append(buf, tagPresent)
		buf = appendUvarint(buf, uint64(len(e.prior)))
		buf = append(buf, e.prior...)
	}
	return buf
}

func decode(b []byte) ([]entry, error) {
	count, n, err := readUvarint(b)
	if err != nil {
		return nil, err
	}
	b = b[n:]

	entries := make([]entry, 0, count)
	for i := uint64(0); i < count; i++ {
		klen, n, err := readUvarint(b)
		if err != nil {
			return nil, err
		}
		b = b[n:]
		if uint64(len(b)) < klen {
			return nil, fmt.Errorf("undo: truncated key at entry %d", i)
		}
		key := make([]byte, klen)
		copy(key, b[:klen])
		b = b[klen:]

		if len(b) < 1 {
			return nil, fmt.Errorf("undo: truncated tag at entry %d", i)
		}
		tag := b[0]
		b = b[1:]

		switch tag {
		case tagAbsent:
			entries = append(entries, entry{key: key, had: false})
		case tagPresent:
			vlen, n, err := readUvarint(b)
			if err != nil {
				return nil, err
			}
			b = b[n:]
			if uint64(len(b)) < vlen {
				return nil, fmt.Errorf("undo: truncated value at entry %d", i)
			}
			val := make([]byte, vlen)
			copy(val, b[:vlen])
			b = b[vlen:]
			entries = append(entries, entry{key: key, prior: val, had: true})
		default:
			return nil, fmt.Errorf("undo: bad tag byte %d at entry %d", tag, i)
		}
	}
	return entries, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func readUvarint(b []byte) (uint64, int, error) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, 0, fmt.Errorf("undo: malformed varint")
	}
	return v, n, nil
}
