package wave

import (
	"github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

// ProcessTx consumes the Glyph reveal envelope found for tx (if any) and
// registers a WAVE name claim when the envelope's protocol set includes
// WAVE and the transaction has the required 38-output shape (core spec
// §4.4's Structural check). claimOwnerScripthash is the scripthash of output
// 0, resolved by the host block processor (this core never derives
// scripthashes from scripts itself — see pkg/types.Tx's doc comment).
func (s *Store) ProcessTx(tx *types.Tx, height uint32, txIdx uint16, env *script.Envelope, claimOwnerScripthash []byte) {
	if env == nil || !env.IsReveal() {
		return
	}
	if !env.IsWaveClaim() {
		return
	}
	if len(tx.Outputs) < OutputCount {
		log.Wave.Debug().Str("tx", tx.Hash.String()).Msg("wave tx has insufficient outputs")
		return
	}

	name, _ := env.StringField("name", "n")
	if name == "" {
		return
	}
	parentName, _ := env.StringField("parent", "pa")

	if err := ValidateName(name); err != nil {
		log.Wave.Debug().Err(err).Str("name", name).Msg("invalid wave name")
		return
	}

	claimRef := types.NewRef(tx.Hash, 0).Bytes()

	var parentRef []byte
	if parentName != "" {
		parentRef = s.resolveNameToRef(parentName)
		if parentRef == nil {
			log.Wave.Debug().Str("parent", parentName).Str("name", name).Msg("wave parent not found")
			return
		}
	} else {
		parentRef = s.genesisRef
	}
	if parentRef == nil {
		log.Wave.Debug().Str("name", name).Msg("no parent ref for wave name")
		return
	}

	s.indexNameInTree(name, parentRef, claimRef)

	nameHash := NameToHash(name)
	s.nameCache[string(nameHash)] = claimRef
	s.heightCache[string(claimRef)] = height

	zone := ZoneRecordsFromMetadata(env.Metadata)
	if zoneBytes, err := zone.ToBytes(); err == nil {
		s.zoneCache[string(claimRef)] = zoneBytes
	}

	if len(claimOwnerScripthash) > 0 {
		s.ownerCache[string(claimRef)] = claimOwnerScripthash
	}

	log.Wave.Info().Str("name", name).Uint32("height", height).Msg("indexed wave name")
}

// indexNameInTree writes one trie edge per character of name, per core spec
// §4.4's Trie indexing rule: every edge along the path resolves to the same
// claim ref (the source's documented simplification — see DESIGN.md).
func (s *Store) indexNameInTree(name string, parentRef, claimRef []byte) {
	current := parentRef
	normalized := NormalizeName(name)
	for i := 0; i < len(normalized); i++ {
		outputIdx, err := CharToOutputIndex(normalized[i])
		if err != nil {
			return
		}
		key := treeKey(current, byte(outputIdx))
		s.treeCache[string(key)] = claimRef
		current = claimRef
	}
}
