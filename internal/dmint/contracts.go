package dmint

import (
	"github.com/radiant-labs/rxindexer/internal/glyph"
	"github.com/radiant-labs/rxindexer/internal/log"
	"github.com/radiant-labs/rxindexer/internal/script"
	"github.com/radiant-labs/rxindexer/pkg/types"
)

// AddContract inserts a new contract, keeping contracts ordered by ascending
// DeployHeight. Returns false if ref is already tracked.
func (m *Manager) AddContract(c *Contract) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addContractLocked(c)
}

func (m *Manager) addContractLocked(c *Contract) bool {
	for _, existing := range m.contracts {
		if existing.Ref == c.Ref {
			return false
		}
	}
	if c.Version == 0 {
		c.Version = ContractVersion
	}
	c.Active = true

	inserted := false
	for i, existing := range m.contracts {
		if c.DeployHeight < existing.DeployHeight {
			m.contracts = append(m.contracts[:i], append([]*Contract{c}, m.contracts[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		m.contracts = append(m.contracts, c)
	}

	log.DMint.Info().Str("ref", c.Ref).Str("ticker", c.Ticker).Msg("added dmint contract")
	return true
}

// UpdateContract applies update to the contract matching ref. Returns false
// if ref is not tracked.
func (m *Manager) UpdateContract(ref string, update func(*Contract)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contracts {
		if c.Ref == ref {
			update(c)
			return true
		}
	}
	return false
}

// DeactivateContract marks ref as fully mined.
func (m *Manager) DeactivateContract(ref string) bool {
	return m.UpdateContract(ref, func(c *Contract) {
		c.Active = false
		c.PercentMined = 100
	})
}

// SyncFromIndex scans the Glyph index for DMINT-type tokens, adding new
// contracts and updating existing ones whose difficulty/reward/percent-mined
// changed, then persists both JSON files if anything changed (core spec
// §4.8). Returns the number of contracts added or updated.
func SyncFromIndex(m *Manager, store *glyph.Store, height uint32, limit int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs, err := store.GetTokensByType(script.TokenTypeDMINT, limit)
	if err != nil {
		log.DMint.Error().Err(err).Msg("failed to list dmint tokens from glyph index")
		return 0
	}

	updated := 0
	for _, ref := range refs {
		rec, ok := store.GetToken(ref)
		if !ok {
			continue
		}
		refStr := toRef(ref).String()

		existing := m.findLocked(refStr)
		if existing != nil {
			changed := false
			if existing.Difficulty != rec.CurrentDifficulty {
				existing.Difficulty = rec.CurrentDifficulty
				changed = true
			}
			if existing.Reward != rec.Reward {
				existing.Reward = rec.Reward
				changed = true
			}
			percentMined := rec.PercentMined()
			if percentMined != existing.PercentMined {
				existing.PercentMined = percentMined
				changed = true
			}
			if percentMined >= 100 && existing.Active {
				existing.Active = false
				changed = true
			}
			if changed {
				updated++
			}
			continue
		}

		// The source's "outputs" field (mint-batch output count) has no
		// counterpart in glyph.TokenRecord; default to 1, matching
		// dmint_contracts.py's own fallback `token.get('dmint', {}).get(
		// 'outputs', 1)` when the field is absent.
		contract := &Contract{
			Ref:          refStr,
			Outputs:      1,
			Ticker:       rec.Ticker,
			Name:         rec.Name,
			Algorithm:    int(rec.Algorithm),
			Difficulty:   rec.CurrentDifficulty,
			Reward:       rec.Reward,
			DeployHeight: rec.DeployHeight,
		}
		if m.addContractLocked(contract) {
			updated++
		}
	}

	if updated > 0 {
		m.lastUpdatedHeight = height
		m.save()
		log.DMint.Info().Int("updated", updated).Uint32("height", height).Msg("synced dmint contracts")
	}
	return updated
}

func (m *Manager) findLocked(ref string) *Contract {
	for _, c := range m.contracts {
		if c.Ref == ref {
			return c
		}
	}
	return nil
}

func toRef(b []byte) types.Ref {
	var r types.Ref
	copy(r[:], b)
	return r
}
