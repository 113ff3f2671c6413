package dmint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/radiant-labs/rxindexer/internal/log"
)

// extendedFile is the richer contracts_extended.json document.
type extendedFile struct {
	Version       int         `json:"version"`
	UpdatedAt     string      `json:"updated_at"`
	UpdatedHeight uint32      `json:"updated_height"`
	Contracts     []*Contract `json:"contracts"`
}

// Manager keeps an ordered (by ascending deploy height) list of dMint
// contracts, persisted atomically to two JSON files per core spec §4.8.
type Manager struct {
	mu sync.RWMutex

	dataDir      string
	simplePath   string
	extendedPath string

	contracts         []*Contract
	lastUpdatedHeight uint32
}

// NewManager creates a Manager rooted at dataDir, loading any existing
// contracts file found there.
func NewManager(dataDir string) *Manager {
	m := &Manager{
		dataDir:      dataDir,
		simplePath:   filepath.Join(dataDir, "contracts.json"),
		extendedPath: filepath.Join(dataDir, "contracts_extended.json"),
	}
	m.load()
	return m
}

func (m *Manager) load() {
	if data, err := os.ReadFile(m.extendedPath); err == nil {
		var doc extendedFile
		if err := json.Unmarshal(data, &doc); err != nil {
			log.DMint.Error().Err(err).Msg("failed to parse contracts_extended.json")
			return
		}
		m.contracts = doc.Contracts
		m.lastUpdatedHeight = doc.UpdatedHeight
		log.DMint.Info().Int("count", len(m.contracts)).Msg("loaded dmint contracts")
		return
	}

	data, err := os.ReadFile(m.simplePath)
	if err != nil {
		return
	}
	var simple [][2]interface{}
	if err := json.Unmarshal(data, &simple); err != nil {
		log.DMint.Error().Err(err).Msg("failed to parse legacy contracts.json")
		return
	}
	for _, entry := range simple {
		ref, _ := entry[0].(string)
		outputs, _ := entry[1].(float64)
		m.contracts = append(m.contracts, &Contract{Ref: ref, Outputs: int(outputs)})
	}
	log.DMint.Info().Int("count", len(m.contracts)).Msg("migrated dmint contracts from simple format")
	m.save()
}

// save atomically rewrites both JSON files. Both temp files are written
// out fully before either is renamed into place, so a crash mid-save never
// leaves the simple and extended files mutually inconsistent (REDESIGN
// FLAGS: "write both before renaming either").
func (m *Manager) save() {
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		log.DMint.Error().Err(err).Msg("failed to create dmint data dir")
		return
	}

	extended := extendedFile{
		Version:       1,
		UpdatedAt:     nowRFC3339(),
		UpdatedHeight: m.lastUpdatedHeight,
		Contracts:     m.contracts,
	}
	simple := make([][2]interface{}, 0, len(m.contracts))
	for _, c := range m.contracts {
		simple = append(simple, [2]interface{}{c.Ref, c.Outputs})
	}

	extendedTmp, err := writeTemp(m.extendedPath, extended)
	if err != nil {
		log.DMint.Error().Err(err).Msg("failed to stage contracts_extended.json")
		return
	}
	simpleTmp, err := writeTemp(m.simplePath, simple)
	if err != nil {
		log.DMint.Error().Err(err).Msg("failed to stage contracts.json")
		os.Remove(extendedTmp)
		return
	}

	if err := os.Rename(extendedTmp, m.extendedPath); err != nil {
		log.DMint.Error().Err(err).Msg("failed to commit contracts_extended.json")
	}
	if err := os.Rename(simpleTmp, m.simplePath); err != nil {
		log.DMint.Error().Err(err).Msg("failed to commit contracts.json")
	}
}

// writeTemp marshals v and writes it to path+".tmp", returning the temp
// path for a later rename.
func writeTemp(path string, v interface{}) (string, error) {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return "", err
	}
	return tmp, nil
}

// nowRFC3339 is overridable in tests to avoid depending on wall-clock time.
var nowRFC3339 = func() string {
	return time.Now().UTC().Format(time.RFC3339)
}
