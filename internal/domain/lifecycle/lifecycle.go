// Package lifecycle holds shared constants for fx lifecycle hooks.
package lifecycle

import "time"

// DefaultTimeout bounds how long a start or stop hook may take.
const DefaultTimeout = 10 * time.Second
