package api

import (
	"log/slog"

	"github.com/kinetta/takeoffctl/internal/cmd/common"
	"github.com/kinetta/takeoffctl/internal/config"
	"github.com/kinetta/takeoffctl/internal/meta"
)

// Empty type to represent the _type_ ClientFactory. Genesis is to support a key in a Context
type FactoryKey struct{}

// ClientFactoryKey is a global instance of the FactoryKey type
var ClientFactoryKey = FactoryKey{}

// ClientFactory builds an API client from the active profile configuration.
// Commands resolve the factory from their context so tests can inject one
// backed by a stub server.
type ClientFactory func(cfg config.Hook, logger *slog.Logger) (*Client, error)

// DefaultClientFactory builds a client against the configured backend with
// the logging transport.
func DefaultClientFactory(cfg config.Hook, logger *slog.Logger) (*Client, error) {
	baseURL := cfg.GetString(common.BaseURLConfigPath)
	if baseURL == "" {
		baseURL = meta.DefaultAPIBaseURL
	}
	token := cfg.GetString(common.TokenConfigPath)
	return NewClient(baseURL, token, NewLoggingHTTPClient(logger)), nil
}
