package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/itemsapi/internal/config"
	"github.com/meur/itemsapi/internal/dataset"
	"github.com/meur/itemsapi/internal/models"
	"github.com/meur/itemsapi/internal/storage"
)

func TestLoadInitial(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		wantErr    error
		wantHealth models.Health
	}{
		{
			name:       "valid source",
			files:      map[string]string{"items.csv": "Name,Image,Category,where,Marca\nHammer,h,Tools,Shed,Acme\n"},
			wantHealth: models.Health{OK: true, Rows: 1},
		},
		{
			name:       "missing columns",
			files:      map[string]string{"items.csv": "Name,Image\nHammer,h\n"},
			wantErr:    dataset.ErrMissingColumns,
			wantHealth: models.Health{OK: false, Rows: 0},
		},
		{
			name:       "no source",
			files:      map[string]string{"notes.txt": "nothing here"},
			wantHealth: models.Health{OK: false, Rows: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			for name, content := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte(content), 0o644))
			}

			store := storage.New(nil)
			reloader := storage.NewReloader(store, dataset.NewLoader(dataset.Options{BaseDir: base}, nil))

			err := loadInitial(context.Background(), reloader)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantHealth, store.Health())
		})
	}
}

func TestApplyFlags(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Dataset: config.DatasetConfig{DataDir: "data"},
			Server:  config.ServerConfig{Port: 8000, ShutdownTimeout: time.Second},
			Logging: config.LoggingConfig{Level: "info", Format: "text"},
		}
	}

	t.Run("overrides environment", func(t *testing.T) {
		cfg := base()
		require.NoError(t, applyFlags(cfg, []string{"-port", "9090", "-csv", "/srv/items.csv"}))
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "/srv/items.csv", cfg.Dataset.Path)
	})

	t.Run("no flags keeps values", func(t *testing.T) {
		cfg := base()
		require.NoError(t, applyFlags(cfg, nil))
		assert.Equal(t, 8000, cfg.Server.Port)
	})

	for _, port := range []string{"0", "70000", "-1"} {
		t.Run("rejects port "+port, func(t *testing.T) {
			err := applyFlags(base(), []string{"-port", port})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "SERVER_PORT")
		})
	}

	t.Run("unknown flag", func(t *testing.T) {
		assert.Error(t, applyFlags(base(), []string{"-verbose"}))
	})
}
