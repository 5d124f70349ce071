package config

import (
	"encoding/json"
	"os"

	"github.com/logit-team/logit/internal/flagx"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// After unmarshalling, set fields are copied into the runtime Config; absent
// fields keep their defaults.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	RedisAddr        string `json:"redis_addr"`
	SecretKey        string `json:"secret_key"`
	GithubAPIBaseURL string `json:"github_api_base_url"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no file is given, nothing
// happens. An unreadable or invalid file panics: a config the operator asked
// for but cannot be applied should not be silently ignored.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.GithubAPIBaseURL != "" {
		config.GithubAPIBaseURL = c.GithubAPIBaseURL
	}
}
