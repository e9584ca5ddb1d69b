package clients

import (
	"net/http"
	"time"
)

// HTTP is the shared client for the local model services. Model inference can
// be slow on CPU hosts, so the overall timeout is generous; per-request
// deadlines come from the caller's context.
type HTTP struct{ c *http.Client }

func NewHTTP() *HTTP {
	return &HTTP{c: &http.Client{Timeout: 10 * time.Minute}}
}
