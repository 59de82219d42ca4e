package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultHistoryLimit is the page size for task history searches when
	// no limit is given, and the fallback when the requested limit
	// exceeds MaxHistoryLimit.
	DefaultHistoryLimit = 20

	// MaxHistoryLimit is the hard cap on task history page size.
	MaxHistoryLimit = 200

	// DefaultRetentionDays is how long task history rows are kept by the
	// cleanup-history command unless overridden.
	DefaultRetentionDays = 90

	// ParentIDCacheTTL is how long a stashed parent ID outlives the
	// deletion of a child entity. A week is long enough to cover delivery
	// retry and backoff windows.
	ParentIDCacheTTL = 7 * 24 * time.Hour

	// DeliveryTimeout bounds a single outbound webhook HTTP request.
	DeliveryTimeout = 30 * time.Second

	// DeliveryMaxRetries is the number of transport-level retries per
	// delivery attempt. HTTP error responses are not retried; the
	// outcome is recorded instead.
	DeliveryMaxRetries = 3

	// WorkerPollInterval is how often the delivery worker polls for
	// pending jobs when the queue is empty.
	WorkerPollInterval = time.Second
)
