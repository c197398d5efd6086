package protocol

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goccy/go-json"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
)

// discoverCmd inspects the source and emits the catalog of available streams.
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "discover command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if configPath == "not-set" {
			return fmt.Errorf("--config not passed")
		}

		return utils.UnmarshalFile(configPath, connector.GetConfigRef(), true)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := connector.Setup(cmd.Context()); err != nil {
			return err
		}

		streams, err := connector.Discover(cmd.Context())
		if err != nil {
			return err
		}
		if len(streams) == 0 {
			return errors.New("no streams found in connector")
		}

		wrappedCatalog := types.GetWrappedCatalog(streams)
		content, err := json.MarshalIndent(wrappedCatalog, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %s", err)
		}
		if err := os.WriteFile(viper.GetString(constants.StreamsPath), content, 0o644); err != nil {
			return fmt.Errorf("failed to write streams file: %s", err)
		}

		logger.LogCatalog(wrappedCatalog)
		return nil
	},
}
