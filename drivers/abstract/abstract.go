package abstract

import (
	"context"
	"fmt"
	"sync"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
)

type AbstractDriver struct {
	driver          DriverInterface
	state           *types.State
	registry        *types.SchemaRegistry
	emitter         *destination.Emitter
	GlobalConnGroup *utils.CxGroup
	GlobalCtxGroup  *utils.CxGroup
}

var DefaultColumns = map[string]types.DataType{
	constants.InletID:        types.String,
	constants.InletTimestamp: types.TimestampMicro,
	constants.OpType:         types.String,
}

func NewAbstractDriver(ctx context.Context, driver DriverInterface) *AbstractDriver {
	return &AbstractDriver{
		driver:          driver,
		GlobalCtxGroup:  utils.NewCGroup(ctx),
		GlobalConnGroup: utils.NewCGroupWithLimit(ctx, constants.DefaultThreadCount), // default max connections
	}
}

func (a *AbstractDriver) SetupState(state *types.State) {
	a.state = state
	a.driver.SetupState(state)
}

func (a *AbstractDriver) SetupRegistry(registry *types.SchemaRegistry) {
	a.registry = registry
	a.emitter = destination.NewEmitter(registry)
}

func (a *AbstractDriver) GetConfigRef() Config {
	return a.driver.GetConfigRef()
}

func (a *AbstractDriver) Spec() any {
	return a.driver.Spec()
}

func (a *AbstractDriver) Type() string {
	return a.driver.Type()
}

func (a *AbstractDriver) Setup(ctx context.Context) error {
	return a.driver.Setup(ctx)
}

func (a *AbstractDriver) Discover(ctx context.Context) ([]*types.Stream, error) {
	// set max connections
	if a.driver.MaxConnections() > 0 {
		a.GlobalConnGroup = utils.NewCGroupWithLimit(ctx, a.driver.MaxConnections())
	}

	streams, err := a.driver.GetStreamNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream names: %s", err)
	}
	var streamMap sync.Map

	utils.ConcurrentInGroup(a.GlobalConnGroup, streams, func(ctx context.Context, stream string) error {
		streamSchema, err := a.driver.ProduceSchema(ctx, stream)
		if err != nil {
			return fmt.Errorf("%w: failed to produce schema for stream %s: %s", constants.ErrNonRetryable, stream, err)
		}
		streamMap.Store(streamSchema.ID(), streamSchema)
		return nil
	})

	if err := a.GlobalConnGroup.Block(); err != nil {
		return nil, fmt.Errorf("error occurred while waiting for connection group: %s", err)
	}

	var finalStreams []*types.Stream
	streamMap.Range(func(_, value any) bool {
		convStream, _ := value.(*types.Stream)

		// add default columns
		for column, typ := range DefaultColumns {
			convStream.UpsertField(column, typ, true)
		}

		// priority to default sync mode (incremental -> full refresh)
		if convStream.SupportedSyncModes.Exists(types.INCREMENTAL) {
			convStream.SyncMode = types.INCREMENTAL
		} else {
			convStream.SyncMode = types.FULLREFRESH
		}

		finalStreams = append(finalStreams, convStream)
		return true
	})

	return finalStreams, nil
}

func (a *AbstractDriver) Read(ctx context.Context, pool *destination.WriterPool, standardStreams, incrementalStreams []types.StreamInterface) error {
	// set max read connections
	if a.driver.MaxConnections() > 0 {
		a.GlobalConnGroup = utils.NewCGroupWithLimit(ctx, a.driver.MaxConnections())
	}

	// run incremental sync
	for _, stream := range incrementalStreams {
		a.GlobalCtxGroup.Add(func(ctx context.Context) error {
			return a.Incremental(ctx, pool, stream)
		})
	}

	// handle standard streams (full refresh)
	for _, stream := range standardStreams {
		a.GlobalCtxGroup.Add(func(ctx context.Context) error {
			return a.Backfill(ctx, pool, stream)
		})
	}

	// wait for all threads to finish
	if err := a.GlobalCtxGroup.Block(); err != nil {
		return fmt.Errorf("error occurred while waiting for context groups: %s", err)
	}

	if err := a.GlobalConnGroup.Block(); err != nil {
		return fmt.Errorf("error occurred while waiting for connections: %s", err)
	}
	return nil
}

// generateThreadID creates a unique thread ID for a stream
func generateThreadID(streamID string, suffix string) string {
	withSuffix := fmt.Sprintf("%s_%s_%s", streamID, utils.ULID(), suffix)
	withoutSuffix := fmt.Sprintf("%s_%s", streamID, utils.ULID())
	return utils.Ternary(suffix != "", withSuffix, withoutSuffix).(string)
}
