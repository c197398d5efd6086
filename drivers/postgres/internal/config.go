package driver

import (
	"fmt"
	"net/url"

	"github.com/inletio/inlet/utils"
)

type Config struct {
	Host     string `json:"host" validate:"required,hostname_rfc1123|ip"`
	Port     int    `json:"port" validate:"required,gt=0,lte=65535"`
	Database string `json:"database" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
	// SSLMode maps straight to the sslmode connection parameter.
	SSLMode string `json:"ssl_mode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	// MaxThreads caps parallel chunk readers during backfill.
	MaxThreads int `json:"max_threads"`
	RetryCount int `json:"retry_count"`
	// ChunkSize is the number of rows per backfill chunk.
	ChunkSize int64 `json:"chunk_size"`
}

func (c *Config) Validate() error {
	if err := utils.Validate(c); err != nil {
		return fmt.Errorf("failed to validate postgres config: %s", err)
	}

	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxThreads <= 0 {
		c.MaxThreads = 2
	}
	if c.RetryCount <= 0 {
		c.RetryCount = 3
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 500000
	}

	return nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username), url.QueryEscape(c.Password),
		c.Host, c.Port, url.QueryEscape(c.Database), c.SSLMode,
	)
}

type Table struct {
	Schema string `db:"table_schema"`
	Name   string `db:"table_name"`
}

type ColumnDetails struct {
	Name       string  `db:"column_name"`
	DataType   *string `db:"data_type"`
	IsNullable *string `db:"is_nullable"`
}
