package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/drivers/abstract"
	"github.com/inletio/inlet/drivers/base"
	"github.com/inletio/inlet/pkg/jdbc"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils/logger"
	"github.com/inletio/inlet/utils/typeutils"
)

const discoverTime = 5 * time.Minute

var pgTypeToDataTypes = map[string]types.DataType{
	"smallint":                    types.Int32,
	"int2":                        types.Int32,
	"integer":                     types.Int32,
	"int4":                        types.Int32,
	"bigint":                      types.Int64,
	"int8":                        types.Int64,
	"real":                        types.Float32,
	"float4":                      types.Float32,
	"double precision":            types.Float64,
	"float8":                      types.Float64,
	"numeric":                     types.Decimal,
	"decimal":                     types.Decimal,
	"boolean":                     types.Bool,
	"bool":                        types.Bool,
	"text":                        types.String,
	"varchar":                     types.String,
	"character varying":           types.String,
	"character":                   types.String,
	"char":                        types.String,
	"bpchar":                      types.String,
	"uuid":                        types.String,
	"json":                        types.Object,
	"jsonb":                       types.Object,
	"bytea":                       types.Binary,
	"date":                        types.Date,
	"timestamp":                   types.TimestampNTZ,
	"timestamp without time zone": types.TimestampNTZ,
	"timestamptz":                 types.Timestamp,
	"timestamp with time zone":    types.Timestamp,
}

type Postgres struct {
	*base.Driver
	client *sqlx.DB
	config *Config
}

func New() *Postgres {
	return &Postgres{Driver: base.NewBase()}
}

func (p *Postgres) GetConfigRef() abstract.Config {
	p.config = &Config{}
	return p.config
}

func (p *Postgres) Spec() any {
	return Config{}
}

func (p *Postgres) Type() string {
	return string(constants.Postgres)
}

func (p *Postgres) MaxConnections() int {
	return p.config.MaxThreads
}

func (p *Postgres) MaxRetries() int {
	return p.config.RetryCount
}

func (p *Postgres) Setup(ctx context.Context) error {
	sqlxDB, err := sqlx.Open("pgx", p.config.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect database: %s", err)
	}

	pgClient := sqlxDB.Unsafe()
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	// force a connection and test that it worked
	if err := pgClient.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %s", err)
	}

	p.client = pgClient
	return nil
}

func (p *Postgres) CloseConnection() {
	if p.client != nil {
		if err := p.client.Close(); err != nil {
			logger.Errorf("failed to close connection with postgres: %s", err)
		}
	}
}

func (p *Postgres) GetStreamNames(ctx context.Context) ([]string, error) {
	logger.Infof("Starting discover for postgres database %s", p.config.Database)
	discoverCtx, cancel := context.WithTimeout(ctx, discoverTime)
	defer cancel()

	var tables []Table
	if err := p.client.SelectContext(discoverCtx, &tables, jdbc.DiscoverTablesQuery()); err != nil {
		return nil, fmt.Errorf("failed to query tables: %s", err)
	}

	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, fmt.Sprintf("%s.%s", table.Schema, table.Name))
	}
	return names, nil
}

func (p *Postgres) ProduceSchema(ctx context.Context, streamName string) (*types.Stream, error) {
	namespace, name, found := strings.Cut(streamName, ".")
	if !found {
		return nil, fmt.Errorf("invalid stream name[%s], expected format namespace.name", streamName)
	}

	stream := types.NewStream(name, namespace)
	var columnSchemaOutput []ColumnDetails
	if err := p.client.SelectContext(ctx, &columnSchemaOutput, jdbc.TableSchemaQuery(), namespace, name); err != nil {
		return stream, fmt.Errorf("failed to retrieve column details for table %s: %s", streamName, err)
	}

	if len(columnSchemaOutput) == 0 {
		logger.Warnf("no columns found in table %s", streamName)
		return stream, nil
	}

	var primaryKeyOutput []ColumnDetails
	if err := p.client.SelectContext(ctx, &primaryKeyOutput, jdbc.TablePrimaryKeyQuery(), namespace, name); err != nil {
		return stream, fmt.Errorf("failed to retrieve primary key columns for table %s: %s", streamName, err)
	}

	for _, column := range columnSchemaOutput {
		datatype := types.Unknown
		if val, found := pgTypeToDataTypes[*column.DataType]; found {
			datatype = val
		} else {
			logger.Warnf("failed to map column type %s[%s], defaulting to string", column.Name, *column.DataType)
			datatype = types.String
		}

		stream.UpsertField(column.Name, datatype, strings.EqualFold("yes", *column.IsNullable))

		// timestamp and numeric columns can serve as incremental cursors
		if datatype == types.Timestamp || datatype == types.TimestampNTZ || datatype == types.Int64 || datatype == types.Int32 {
			stream.WithCursorField(column.Name)
		}
	}

	stream.WithSyncMode(types.FULLREFRESH)

	for _, column := range primaryKeyOutput {
		stream.WithPrimaryKey(column.Name)
	}

	return stream, nil
}

func (p *Postgres) dataTypeConverter(value any, columnType string) (any, error) {
	if value == nil {
		return nil, typeutils.ErrNullValue
	}

	datatype := typeutils.ExtractAndMapColumnType(columnType, pgTypeToDataTypes)
	if datatype == "" {
		// discovery declares unmapped column types (interval, inet, enums,
		// arrays) as strings; conversion must agree
		datatype = types.String
	}
	return typeutils.ReformatValue(datatype, value)
}
