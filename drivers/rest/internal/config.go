package driver

import (
	"fmt"

	"github.com/inletio/inlet/utils"
)

// StreamConfig declares one API collection to sync. REST sources carry no
// catalog of their own, so streams are declared up front and their schemas
// are sampled from live responses.
type StreamConfig struct {
	Name        string   `json:"name" validate:"required"`
	Path        string   `json:"path" validate:"required"`
	PrimaryKeys []string `json:"primary_keys"`
	CursorField string   `json:"cursor_field"`
}

type Config struct {
	BaseURL string            `json:"base_url" validate:"required,url"`
	Headers map[string]string `json:"headers"`
	// BearerToken is sent as an Authorization header when set.
	BearerToken string         `json:"bearer_token"`
	Streams     []StreamConfig `json:"streams" validate:"required,min=1,dive"`
	// PageSize overrides the request page size, bounded by the source.
	PageSize   int `json:"page_size"`
	MaxThreads int `json:"max_threads"`
	RetryCount int `json:"retry_count"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `json:"timeout_seconds"`
}

func (c *Config) Validate() error {
	if err := utils.Validate(c); err != nil {
		return fmt.Errorf("failed to validate rest config: %s", err)
	}

	if c.MaxThreads <= 0 {
		c.MaxThreads = 2
	}
	if c.RetryCount <= 0 {
		c.RetryCount = 3
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}

	return nil
}

func (c *Config) stream(name string) (*StreamConfig, bool) {
	for i := range c.Streams {
		if c.Streams[i].Name == name {
			return &c.Streams[i], true
		}
	}
	return nil, false
}
