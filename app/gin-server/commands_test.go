package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yoockh/volunteerhub/config"
)

func TestCheckSweepable(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"mongo", false},
		{"memory", true},
		{"", true},
	}
	for _, tt := range tests {
		cfg := &config.Config{Storage: config.StorageConfig{RecordBackend: tt.backend}}
		err := checkSweepable(cfg)
		if tt.wantErr {
			assert.Error(t, err, tt.backend)
		} else {
			assert.NoError(t, err, tt.backend)
		}
	}
}

func TestSweepCommandRefusesMemoryRecords(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("BLOB_BACKEND", "memory")

	cmd := newSweepOrphansCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	err := cmd.Execute()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "STORE_BACKEND=mongo")
	}
}
