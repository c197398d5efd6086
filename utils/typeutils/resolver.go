package typeutils

import "github.com/inletio/inlet/types"

// Resolve infers column declarations from sampled records and merges them into
// the stream schema. A column missing from any sample is marked nullable.
func Resolve(stream *types.Stream, records ...map[string]interface{}) error {
	merged := Fields{}

	for _, record := range records {
		sampled := Fields{}
		for column, value := range record {
			sampled[column] = NewField(TypeFromValue(value))
		}

		// columns seen before but absent from this record are nullable
		for column, field := range merged {
			if _, found := record[column]; !found {
				field.setNullable()
			}
		}

		merged.Merge(sampled)
	}

	for column, field := range merged {
		stream.UpsertField(column, field.getType(), field.isNullable())
	}

	return nil
}
