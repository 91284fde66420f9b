package httpapi

import "time"

const defaultMaxUploadBytes int64 = 10 << 20

// maxUploadBytes caps the multipart body accepted by POST /api/print.
var maxUploadBytes = defaultMaxUploadBytes

// SetMaxUploadBytes configures the upload limit; non-positive restores 10 MiB.
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
		return
	}
	maxUploadBytes = n
}

// waitTimeout bounds how long POST /api/print?wait=1 blocks for the job.
// Zero means no additional timeout beyond server/connection timeouts.
var waitTimeout time.Duration

// SetWaitTimeout sets the synchronous submit timeout (<=0 disables).
func SetWaitTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	waitTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
