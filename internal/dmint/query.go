package dmint

import "sort"

// GetContractsSimple returns the naive-miner format: one [ref, outputs] pair
// per active contract.
func (m *Manager) GetContractsSimple() [][2]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][2]interface{}, 0, len(m.contracts))
	for _, c := range m.contracts {
		if c.Active {
			out = append(out, [2]interface{}{c.Ref, c.Outputs})
		}
	}
	return out
}

// ExtendedResponse is the richer-miner contracts document.
type ExtendedResponse struct {
	Version       int         `json:"version"`
	UpdatedAt     string      `json:"updated_at"`
	UpdatedHeight uint32      `json:"updated_height"`
	Count         int         `json:"count"`
	Contracts     []*Contract `json:"contracts"`
}

// GetContractsExtended returns the richer-miner document, optionally
// restricted to active contracts.
func (m *Manager) GetContractsExtended(activeOnly bool) ExtendedResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	contracts := m.contracts
	if activeOnly {
		contracts = make([]*Contract, 0, len(m.contracts))
		for _, c := range m.contracts {
			if c.Active {
				contracts = append(contracts, c)
			}
		}
	}
	return ExtendedResponse{
		Version:       1,
		UpdatedAt:     nowRFC3339(),
		UpdatedHeight: m.lastUpdatedHeight,
		Count:         len(contracts),
		Contracts:     contracts,
	}
}

// GetContract returns a single contract by ref.
func (m *Manager) GetContract(ref string) (*Contract, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.findLocked(ref)
	if c == nil {
		return nil, false
	}
	return c, true
}

// GetContractsByAlgorithm returns active contracts mined with algorithm.
func (m *Manager) GetContractsByAlgorithm(algorithm int) []*Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Contract
	for _, c := range m.contracts {
		if c.Algorithm == algorithm && c.Active {
			out = append(out, c)
		}
	}
	return out
}

// GetMostProfitable returns active contracts sorted by reward/difficulty
// descending, capped at limit.
func (m *Manager) GetMostProfitable(limit int) []*Contract {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []*Contract
	for _, c := range m.contracts {
		if c.Active {
			active = append(active, c)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return profitability(active[i]) > profitability(active[j])
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active
}

func profitability(c *Contract) float64 {
	difficulty := c.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	return float64(c.Reward) / float64(difficulty)
}

// Stats summarizes the manager's current contract set.
type Stats struct {
	Total  int
	Active int
}

// GetStats returns aggregate contract counts.
func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := Stats{Total: len(m.contracts)}
	for _, c := range m.contracts {
		if c.Active {
			stats.Active++
		}
	}
	return stats
}
