package protocol

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
)

// syncCmd wires source fetchers to destination writers and runs the sync.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "sync command",
	Long:  `Sync command initiates source fetchers and destination writers and starts running sync`,
	Example: `
// Base command:
inlet sync --config path/to/config --destination path/to/destination/config --streams path/to/streams

// With State:
inlet sync --config path/to/config --destination path/to/destination/config --streams path/to/streams --state /path/to/state
`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		} else if destinationConfigPath == "not-set" {
			return fmt.Errorf("--destination not passed")
		} else if streamsPath == "" {
			return fmt.Errorf("--streams not passed")
		}

		if err := utils.UnmarshalFile(configPath, connector.GetConfigRef(), true); err != nil {
			return err
		}

		destinationConfig = &types.WriterConfig{}
		if err := utils.UnmarshalFile(destinationConfigPath, destinationConfig, false); err != nil {
			return err
		}
		if destinationConfig.BatchSize <= 0 {
			destinationConfig.BatchSize = int(batchSize)
		}

		catalog = &types.Catalog{}
		if err := utils.UnmarshalFile(streamsPath, catalog, false); err != nil {
			return err
		}

		state = types.NewState()
		if statePath != "" {
			if err := utils.UnmarshalFile(statePath, state, false); err != nil {
				return err
			}
		}
		if state.Version > constants.LatestStateVersion {
			return fmt.Errorf("state version %d is newer than supported version %d", state.Version, constants.LatestStateVersion)
		}
		state.Version = constants.LatestStateVersion

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		pool, err := destination.NewWriterPool(cmd.Context(), destinationConfig)
		if err != nil {
			return fmt.Errorf("failed to create writer pool: %s", err)
		}

		if err := connector.Setup(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup connector: %s", err)
		}

		streams, err := connector.Discover(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to discover streams: %s", err)
		}

		connector.SetupState(state)
		categories, err := types.IdentifySelectedStreams(catalog, streams, state)
		if err != nil {
			return err
		}

		// declared schemas and primary keys seed the registry; columns the
		// source never declared get inferred at emit time
		registry := types.NewSchemaRegistry()
		for _, stream := range append(categories.StandardStreams, categories.IncrementalStreams...) {
			columns := make(map[string]types.DataType)
			for _, column := range stream.Schema().Columns() {
				typ, err := stream.Schema().GetType(column)
				if err != nil {
					continue
				}
				columns[column] = typ
			}
			registry.Declare(stream.ID(), columns, stream.GetStream().SourceDefinedPrimaryKey.Array()...)
		}
		connector.SetupRegistry(registry)

		if err := connector.Read(cmd.Context(), pool, categories.StandardStreams, categories.IncrementalStreams); err != nil {
			return fmt.Errorf("error occurred while reading records: %s", err)
		}

		logger.Infof("Total records read: %d", pool.TotalRecords())
		return state.LogState()
	},
}
