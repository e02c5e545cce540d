package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/capacity-planner/internal/pkg/isoweek"
)

// maxUploadSize bounds imported files and request bodies.
const maxUploadSize = 10 << 20

// queryInt parses an optional integer query parameter. Missing gives 0.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// queryDate parses an optional YYYY-MM-DD query parameter, defaulting to
// fallback.
func queryDate(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return isoweek.Truncate(fallback), true
	}
	return isoweek.Parse(raw)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
}
