package orderapi

import "time"

// Config represents the configuration for the order service client
type Config struct {
	// BaseURL is the order service API root, e.g. https://api.tene.ge/api
	BaseURL string

	// Timeout bounds a single request; zero means 30s
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
