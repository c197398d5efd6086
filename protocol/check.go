package protocol

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
)

// checkCmd verifies connectivity of the source or the destination, emitting a
// CONNECTION_STATUS message either way.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "check command",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if destinationConfigPath == "not-set" && configPath == "not-set" {
			return fmt.Errorf("no connector config or destination config provided")
		}

		if destinationConfigPath != "not-set" {
			destinationConfig = &types.WriterConfig{}
			return utils.UnmarshalFile(destinationConfigPath, destinationConfig, true)
		}

		return utils.UnmarshalFile(configPath, connector.GetConfigRef(), true)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		err := func() error {
			if destinationConfigPath != "not-set" {
				_, err := destination.NewWriterPool(cmd.Context(), destinationConfig)
				return err
			}

			return connector.Setup(cmd.Context())
		}()

		logger.LogConnectionStatus(err)
	},
}
