package dmint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	m.AddContract(&Contract{Ref: "abc", Outputs: 4, Ticker: "ABC", DeployHeight: 10})
	m.mu.Lock()
	m.lastUpdatedHeight = 10
	m.save()
	m.mu.Unlock()

	if _, err := os.Stat(filepath.Join(dir, "contracts.json")); err != nil {
		t.Fatalf("want contracts.json written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "contracts_extended.json")); err != nil {
		t.Fatalf("want contracts_extended.json written: %v", err)
	}

	m2 := NewManager(dir)
	c, ok := m2.GetContract("abc")
	if !ok {
		t.Fatalf("want contract reloaded from disk")
	}
	if c.Ticker != "ABC" || c.Outputs != 4 {
		t.Fatalf("unexpected reloaded contract: %+v", c)
	}
}

func TestLoadMigratesLegacySimpleFormat(t *testing.T) {
	dir := t.TempDir()
	simplePath := filepath.Join(dir, "contracts.json")
	if err := os.WriteFile(simplePath, []byte(`[["legacyref", 2]]`), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	m := NewManager(dir)
	c, ok := m.GetContract("legacyref")
	if !ok {
		t.Fatalf("want legacy contract migrated")
	}
	if c.Outputs != 2 {
		t.Fatalf("want outputs 2, got %d", c.Outputs)
	}

	if _, err := os.Stat(filepath.Join(dir, "contracts_extended.json")); err != nil {
		t.Fatalf("want extended file written after migration: %v", err)
	}
}

func TestNewManagerNoExistingFilesStartsEmpty(t *testing.T) {
	m := NewManager(t.TempDir())
	stats := m.GetStats()
	if stats.Total != 0 {
		t.Fatalf("want empty manager, got %d contracts", stats.Total)
	}
}
