package wave

import "encoding/binary"

// Key prefixes, per core spec §4.4's key schema.
var (
	prefixTree   = []byte("WT")
	prefixName   = []byte("WN")
	prefixZone   = []byte("WZ")
	prefixOwner  = []byte("WO")
	prefixHeight = []byte("WH")
)

func treeKey(parentRef []byte, outputIndex byte) []byte {
	return concat(prefixTree, parentRef, []byte{outputIndex})
}

func nameKey(nameHash []byte) []byte {
	return concat(prefixName, nameHash)
}

func zoneKey(ref []byte) []byte {
	return concat(prefixZone, ref)
}

func ownerKey(ref []byte) []byte {
	return concat(prefixOwner, ref)
}

func heightKey(ref []byte) []byte {
	return concat(prefixHeight, ref)
}

func beUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
