package protocol

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils/logger"
)

// specCmd prints the configuration shape of the connector or a destination.
var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "spec command",
	RunE: func(_ *cobra.Command, _ []string) error {
		var config any
		if destinationType == "not-set" {
			config = connector.Spec()
		} else {
			newFunc, found := destination.RegisteredWriters[types.DestinationType(strings.ToLower(destinationType))]
			if !found {
				return fmt.Errorf("invalid destination type has been passed [%s]", destinationType)
			}
			config = newFunc().Spec()
		}

		logger.LogSpec(config)
		return nil
	},
}
