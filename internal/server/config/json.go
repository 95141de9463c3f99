package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mbelyaev/postboard/internal/flagx"
	"github.com/mbelyaev/postboard/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for the token lifetime fields, which
// allows parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   timex.Duration `json:"reset_token_validity_duration"`
	EnforceOwnership             *bool          `json:"enforce_ownership"`
	ResetLinkBaseURL             string         `json:"reset_link_base_url"`
	SMTPAddr                     string         `json:"smtp_addr"`
	EmailFrom                    string         `json:"email_from"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
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
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.ResetTokenValidityDuration.Duration != 0 {
		config.ResetTokenValidityDuration = time.Duration(c.ResetTokenValidityDuration.Duration)
	}
	if c.EnforceOwnership != nil {
		config.EnforceOwnership = *c.EnforceOwnership
	}
	if c.ResetLinkBaseURL != "" {
		config.ResetLinkBaseURL = c.ResetLinkBaseURL
	}
	if c.SMTPAddr != "" {
		config.SMTPAddr = c.SMTPAddr
	}
	if c.EmailFrom != "" {
		config.EmailFrom = c.EmailFrom
	}
}
