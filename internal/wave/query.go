package wave

import "bytes"

// Resolution is the result of resolving a WAVE name to its current claim.
type Resolution struct {
	Name  string
	Ref   []byte
	Zone  *ZoneRecords
	Owner []byte
}

// Resolve looks up name's current claim ref, zone records, and owner
// scripthash. The second return is false when the name has no claim.
func (s *Store) Resolve(name string) (*Resolution, bool) {
	ref := s.resolveNameToRef(NormalizeName(name))
	if ref == nil {
		return nil, false
	}

	res := &Resolution{Name: NormalizeName(name), Ref: ref}

	if zoneBytes, ok := s.lookupZone(ref); ok {
		zone, err := ZoneRecordsFromBytes(zoneBytes)
		if err == nil {
			res.Zone = zone
		}
	}
	if owner, ok := s.lookupOwner(ref); ok {
		res.Owner = owner
	}
	return res, true
}

// CheckAvailable reports whether name has no existing claim.
func (s *Store) CheckAvailable(name string) bool {
	return s.resolveNameToRef(NormalizeName(name)) == nil
}

// GetSubdomains returns the ref stored on each of parentRef's branch outputs,
// probing the Alphabet's branch outputs in output-index order (core spec
// §4.4's trie has no separate child-enumeration index). Every edge along a
// name's path holds that name's own claim ref, so of several children that
// share a first character only the most recently written one is listed, and
// parentRef itself is listed for the later characters of its own name.
func (s *Store) GetSubdomains(parentRef []byte, limit int) ([][]byte, error) {
	var out [][]byte
	for i := 0; i < len(Alphabet); i++ {
		if limit > 0 && len(out) >= limit {
			break
		}
		outputIdx, err := CharToOutputIndex(Alphabet[i])
		if err != nil {
			continue
		}
		key := treeKey(parentRef, byte(outputIdx))
		if ref, ok := s.treeCache[string(key)]; ok {
			out = append(out, ref)
			continue
		}
		data, err := s.db.Get(key)
		if err != nil {
			return nil, err
		}
		if data != nil {
			out = append(out, data)
		}
	}
	return out, nil
}

// ReverseLookup scans every owner record for scripthash, returning the claim
// refs owned by it. This is an O(n) scan: core spec §4.4 explicitly
// sanctions this instead of maintaining a reverse index.
func (s *Store) ReverseLookup(scripthash []byte, limit int) ([][]byte, error) {
	var out [][]byte
	seen := make(map[string]bool)

	for ref, owner := range s.ownerCache {
		if bytes.Equal(owner, scripthash) {
			out = append(out, []byte(ref))
			seen[ref] = true
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}

	err := s.db.ForEach(prefixOwner, func(key, value []byte) error {
		if limit > 0 && len(out) >= limit {
			return nil
		}
		ref := key[len(prefixOwner):]
		if seen[string(ref)] {
			return nil
		}
		if bytes.Equal(value, scripthash) {
			out = append(out, append([]byte(nil), ref...))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) lookupZone(ref []byte) ([]byte, bool) {
	if zoneBytes, ok := s.zoneCache[string(ref)]; ok {
		return zoneBytes, true
	}
	data, err := s.db.Get(zoneKey(ref))
	if err != nil || data == nil {
		return nil, false
	}
	return data, true
}

func (s *Store) lookupOwner(ref []byte) ([]byte, bool) {
	if owner, ok := s.ownerCache[string(ref)]; ok {
		return owner, true
	}
	data, err := s.db.Get(ownerKey(ref))
	if err != nil || data == nil {
		return nil, false
	}
	return data, true
}

// Stats tallies total registered names and owners, following
// glyph.Store.GetStats's ForEach-over-prefix pattern.
type Stats struct {
	TotalNames  int
	TotalOwners int
}

// GetStats scans the persisted name and owner prefixes; in-flight (unflushed)
// registrations from the current block are not reflected until Flush.
func (s *Store) GetStats() (Stats, error) {
	var st Stats
	if err := s.db.ForEach(prefixName, func(_, _ []byte) error {
		st.TotalNames++
		return nil
	}); err != nil {
		return st, err
	}
	if err := s.db.ForEach(prefixOwner, func(_, _ []byte) error {
		st.TotalOwners++
		return nil
	}); err != nil {
		return st, err
	}
	return st, nil
}
