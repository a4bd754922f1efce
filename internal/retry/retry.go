package retry

import (
	"time"

	"github.com/wb-go/wbf/retry"
)

// DefaultStrategy is applied to database statements. The compose pipeline
// itself is never retried; a failed request is terminal.
var DefaultStrategy = retry.Strategy{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	Backoff:  2,
}
