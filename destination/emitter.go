package destination

import (
	"errors"
	"fmt"

	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
	"github.com/inletio/inlet/utils/typeutils"
)

// Emitter converts loosely typed records into wire records whose every value
// carries an explicit destination type. Declarations come from the registry;
// columns typed Unknown are inferred per value at emit time. Conversion is
// deterministic given the same inputs; the only side effects are one-time
// informational notes.
type Emitter struct {
	registry *types.SchemaRegistry
}

func NewEmitter(registry *types.SchemaRegistry) *Emitter {
	return &Emitter{registry: registry}
}

// Emit types a raw record against the table's declarations. The first record
// of a previously unseen table synthesizes its column set, all columns
// Unknown. Failures are fatal; no partial-record salvage.
func (e *Emitter) Emit(table string, raw types.Record) (types.Record, error) {
	decl := e.registry.GetOrCreate(table, raw)

	typed := make(types.Record, len(raw))
	for column, value := range raw {
		found, property := decl.Schema.GetProperty(column)
		if !found {
			// column appeared after the table was first seen
			decl.Schema.AddTypes(column, types.Unknown)
			_, property = decl.Schema.GetProperty(column)
		}

		// typed null regardless of declaration
		if value == nil {
			typed[column] = nil
			continue
		}

		declared := property.DataType()
		if declared == types.Unknown {
			inferred := typeutils.TypeFromValue(value)
			if inferred == types.Array {
				return nil, fmt.Errorf("table[%s] column[%s]: %w", table, column, typeutils.ErrArrayValue)
			}
			if inferred == types.Bool && decl.NoteBoolInference() {
				logger.Infof("table[%s]: boolean type inferred for column[%s]", table, column)
				if decl.Keyless() {
					logger.Warnf("table[%s]: boolean inference on a table without primary keys; upserts will not deduplicate", table)
				}
			}
			declared = inferred
		}

		converted, err := typeutils.ReformatValue(declared, value)
		if err != nil {
			if errors.Is(err, typeutils.ErrNullValue) {
				typed[column] = nil
				continue
			}
			return nil, fmt.Errorf("table[%s] column[%s]: %w", table, column, err)
		}
		typed[column] = converted
	}

	return typed, nil
}

// EmitRaw wraps Emit for callers that want the transport form directly.
func (e *Emitter) EmitRaw(table string, raw types.Record, operationType string) (types.RawRecord, error) {
	typed, err := e.Emit(table, raw)
	if err != nil {
		return types.RawRecord{}, err
	}

	decl, _ := e.registry.Get(table)
	recordID := utils.GetKeysHash(typed, decl.PrimaryKeys.Array()...)
	return types.CreateRawRecord(recordID, typed, operationType), nil
}
