// Package lifecycle holds shared constants for fx lifecycle hooks.
package lifecycle

import "time"

// DefaultTimeout bounds startup and shutdown work performed inside fx hooks.
const DefaultTimeout = 10 * time.Second
