package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

func Ternary(cond bool, one, two any) any {
	if cond {
		return one
	}
	return two
}

// ArrayContains checks if an element exists in the array based on the custom condition
func ArrayContains[T any](array []T, condition func(elem T) bool) (int, bool) {
	for idx, elem := range array {
		if condition(elem) {
			return idx, true
		}
	}

	return -1, false
}

func ForEach[T any](array []T, onEach func(one T) error) error {
	for _, one := range array {
		if err := onEach(one); err != nil {
			return err
		}
	}

	return nil
}

func IsValidSubcommand(available []*cobra.Command, sub string) bool {
	for _, command := range available {
		if command.Name() == sub {
			return true
		}
	}

	return false
}

// Unmarshal serializes and deserializes any from into the object
func Unmarshal(from, object any) error {
	reformatted := reformatInnerMaps(from)
	b, err := json.Marshal(reformatted)
	if err != nil {
		return fmt.Errorf("error marshalling object: %s", err)
	}
	if err = json.Unmarshal(b, object); err != nil {
		return fmt.Errorf("error unmarshalling from object: %s", err)
	}

	return nil
}

// UnmarshalFile reads a JSON or YAML file into dest and validates it if it
// implements Validate.
func UnmarshalFile(filePath string, dest any, validate bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %s", filePath, err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, dest); err != nil {
			return fmt.Errorf("failed to unmarshal yaml file %s: %s", filePath, err)
		}
	default:
		if err := json.Unmarshal(content, dest); err != nil {
			return fmt.Errorf("failed to unmarshal file %s: %s", filePath, err)
		}
	}

	if validate {
		if validator, yes := dest.(interface{ Validate() error }); yes {
			if err := validator.Validate(); err != nil {
				return fmt.Errorf("validation failed on file %s: %s", filePath, err)
			}
		}
	}

	return nil
}

// reformatInnerMaps converts map[interface{}]interface{} into map[string]interface{}
// because json.Marshal doesn't support map[interface{}]interface{}
func reformatInnerMaps(valueI any) any {
	switch value := valueI.(type) {
	case []any:
		for i, subValue := range value {
			value[i] = reformatInnerMaps(subValue)
		}
		return value
	case map[any]any:
		newMap := make(map[string]any, len(value))
		for k, subValue := range value {
			newMap[fmt.Sprint(k)] = reformatInnerMaps(subValue)
		}
		return newMap
	case map[string]any:
		for k, subValue := range value {
			value[k] = reformatInnerMaps(subValue)
		}
		return value
	default:
		return valueI
	}
}

// GetKeysHash returns a stable hash of the record values under the given keys;
// used as the upsert identity of a record.
func GetKeysHash(record map[string]any, keys ...string) string {
	if len(keys) == 0 {
		return uuid.NewString()
	}

	hasher := sha256.New()
	for _, key := range keys {
		hasher.Write([]byte(fmt.Sprintf("%s:%v;", key, record[key])))
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

func ULID() string {
	return uuid.NewString()
}

func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}

func TimestampedFileName(extension string) string {
	return fmt.Sprintf("%d_%s.%s", time.Now().UnixMilli(), ULID(), extension)
}
