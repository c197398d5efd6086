package abstract

import (
	"errors"
	"strings"
	"time"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/utils/logger"
)

func RetryOnBackoff(attempts int, sleep time.Duration, f func() error) (err error) {
	for cur := 0; cur < attempts; cur++ {
		if err = f(); err == nil {
			return nil
		}
		if errors.Is(err, constants.ErrNonRetryable) {
			break // permanent errors never benefit from a retry
		}
		if strings.Contains(err.Error(), destination.DestError) || strings.Contains(err.Error(), "context canceled") {
			break // if destination error or global context canceled, break the retry loop
		}
		if attempts > 1 && cur != attempts-1 {
			logger.Infof("retry attempt[%d], retrying after %.2f seconds due to err: %s", cur+1, sleep.Seconds(), err)
			time.Sleep(sleep)
			sleep = sleep * 2
		}
	}

	return err
}
