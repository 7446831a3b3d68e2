package config

import (
	"encoding/json"
	"os"

	"github.com/snipai/snipai/internal/flagx"
	"github.com/snipai/snipai/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "2s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DocStoreEndpoint string         `json:"doc_store_endpoint"`
	AIEndpoint       string         `json:"ai_endpoint"`
	DatabaseID       string         `json:"database_id"`
	CollectionID     string         `json:"collection_id"`
	DataDir          string         `json:"data_dir"`
	AutosaveDelay    timex.Duration `json:"autosave_delay"`
	SearchDebounce   timex.Duration `json:"search_debounce"`
}

// parseJson overlays Config with values loaded from a JSON file resolved via
// the -c/-config flags. Missing file path means no overlay. Read or unmarshal
// errors panic; intended usage is defaults -> parseJson -> parseFlags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DocStoreEndpoint != "" {
		cfg.DocStoreEndpoint = jc.DocStoreEndpoint
	}
	if jc.AIEndpoint != "" {
		cfg.AIEndpoint = jc.AIEndpoint
	}
	if jc.DatabaseID != "" {
		cfg.DatabaseID = jc.DatabaseID
	}
	if jc.CollectionID != "" {
		cfg.CollectionID = jc.CollectionID
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.AutosaveDelay.Duration > 0 {
		cfg.AutosaveDelay = jc.AutosaveDelay.Duration
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
}
