package config

import (
	"encoding/json"
	"os"

	"github.com/snipai/snipai/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ListenAddr       string `json:"listen_addr"`
	ShellOrigin      string `json:"shell_origin"`
	DocStoreEndpoint string `json:"doc_store_endpoint"`
	AIEndpoint       string `json:"ai_endpoint"`
	DataDir          string `json:"data_dir"`
	AutoActivate     *bool  `json:"auto_activate"`
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

	if jc.ListenAddr != "" {
		cfg.ListenAddr = jc.ListenAddr
	}
	if jc.ShellOrigin != "" {
		cfg.ShellOrigin = jc.ShellOrigin
	}
	if jc.DocStoreEndpoint != "" {
		cfg.DocStoreEndpoint = jc.DocStoreEndpoint
	}
	if jc.AIEndpoint != "" {
		cfg.AIEndpoint = jc.AIEndpoint
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.AutoActivate != nil {
		cfg.AutoActivate = *jc.AutoActivate
	}
}
