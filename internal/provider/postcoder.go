package provider

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/ports"
	"github.com/99minutos/address-verification/internal/core/verifier"
	"github.com/99minutos/address-verification/internal/infrastructure/postcoder"
)

// NamePostcoderWeb is the registry name of the Postcoder Web verifier.
const NamePostcoderWeb = "postcoder_web"

// Option keys understood by NewPostcoderWeb.
const (
	OptAPIKey       = "api_key"
	OptCountryCodes = "country_codes"
	OptBaseURL      = "base_url"
	OptIdentifier   = "identifier"
	OptTimeout      = "timeout"
)

// NewPostcoderWeb builds a verifier backed by the Postcoder Web API.
// api_key is required; country_codes is a comma separated list.
func NewPostcoderWeb(opts Options, log zerolog.Logger) (ports.AddressVerifier, error) {
	apiKey, err := requireString(opts, OptAPIKey)
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if raw := opts[OptTimeout]; raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, ErrConfigKeyInvalid(OptTimeout, raw, err)
		}
	}

	client, err := postcoder.NewClient(postcoder.Config{
		APIKey:  apiKey,
		BaseURL: opts[OptBaseURL],
		Timeout: timeout,
	}, log)
	if err != nil {
		return nil, err
	}

	return verifier.New(client, verifier.Options{
		CountryCodes: verifier.ParseCountryCodes(opts[OptCountryCodes]),
		Identifier:   opts[OptIdentifier],
	}, log), nil
}

func requireString(opts Options, key string) (string, error) {
	value, ok := opts[key]
	if !ok || value == "" {
		return "", ErrConfigKeyNotFound(key)
	}
	return value, nil
}
