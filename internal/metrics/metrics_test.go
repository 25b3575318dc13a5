package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	PersistenceWrites.WithLabelValues("watchlist", "ok").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(PersistenceWrites.WithLabelValues("watchlist", "ok")), 1.0)

	path := filepath.Join(t.TempDir(), "moviebrowser.prom")
	require.NoError(t, WriteTextfile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "moviebrowser_persistence_writes_total")
}
