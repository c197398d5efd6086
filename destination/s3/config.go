package s3

import (
	"github.com/inletio/inlet/utils"
)

type Config struct {
	Bucket    string `json:"s3_bucket" validate:"required"`
	Region    string `json:"s3_region" validate:"required"`
	AccessKey string `json:"s3_access_key,omitempty"`
	SecretKey string `json:"s3_secret_key,omitempty"`
	Prefix    string `json:"s3_path,omitempty"`
}

func (c *Config) Validate() error {
	return utils.Validate(c)
}
