// Package lifecycle holds process lifecycle constants shared by deliveries
// and infrastructure clients.
package lifecycle

import "time"

// DefaultTimeout bounds startup pings and graceful shutdown.
const DefaultTimeout = 10 * time.Second
