package inlet

import (
	"os"

	_ "github.com/inletio/inlet/destination/parquet" // registering local parquet writer
	_ "github.com/inletio/inlet/destination/s3"      // registering s3 writer
	"github.com/inletio/inlet/drivers/abstract"
	"github.com/inletio/inlet/protocol"
	"github.com/inletio/inlet/utils/logger"
	"github.com/inletio/inlet/utils/safego"
)

func RegisterDriver(driver abstract.DriverInterface) {
	defer safego.Recovery(true)

	// Execute the root command
	err := protocol.CreateRootCommand(driver).Execute()
	if err != nil {
		logger.Fatal(err)
	}

	os.Exit(0)
}
