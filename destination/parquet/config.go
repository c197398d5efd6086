package parquet

import (
	"github.com/inletio/inlet/utils"
)

type Config struct {
	Path string `json:"local_path" validate:"required"`
	// Maximum rows per file (default: 1000000)
	MaxRows int `json:"max_rows,omitempty"`
}

func (c *Config) Validate() error {
	if c.MaxRows == 0 {
		c.MaxRows = 1000000
	}

	return utils.Validate(c)
}
