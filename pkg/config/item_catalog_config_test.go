package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/cyberrebel/pkg/types"
)

func TestLoadItemCatalogConfig(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "items.yaml")

		validYAML := `items:
  - id: tarjeta_roja
    displayName: "Tarjeta roja"
    categories: [key]
  - id: diario_01
    displayName: "Diario"
    categories: [lore]
    lore: "Entrada 1"
  - id: bateria
    displayName: "Bateria"
    categories: [key, lore]
  - id: sin_categoria
`
		if err := os.WriteFile(testFile, []byte(validYAML), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		cfg, err := LoadItemCatalogConfig(testFile)
		if err != nil {
			t.Fatalf("LoadItemCatalogConfig() failed: %v", err)
		}

		if len(cfg.Items) != 4 {
			t.Fatalf("Expected 4 items, got %d", len(cfg.Items))
		}

		tests := []struct {
			idx  int
			want types.ItemCategory
		}{
			{0, types.CategoryKey},
			{1, types.CategoryLore},
			{2, types.CategoryKey | types.CategoryLore},
			{3, types.CategoryKey}, // 默认值
		}
		for _, tt := range tests {
			if got := cfg.Items[tt.idx].Category; got != tt.want {
				t.Errorf("item %q category = %v, want %v", cfg.Items[tt.idx].ID, got, tt.want)
			}
		}

		if cfg.Items[1].Lore != "Entrada 1" {
			t.Errorf("Expected lore 'Entrada 1', got %q", cfg.Items[1].Lore)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := ParseItemCatalogConfig([]byte("items:\n  - id: x\n    categories: [weapon]\n"))
		if err == nil {
			t.Error("Expected error for unknown category")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadItemCatalogConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Error("Expected error for missing file")
		}
	})
}
