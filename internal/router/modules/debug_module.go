package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugModule exposes liveness and, when enabled, Prometheus metrics.
type DebugModule struct {
	Gatherer       prometheus.Gatherer
	DatabaseReady  func() bool
	MetricsEnabled bool
}

func NewDebugModule(g prometheus.Gatherer, dbReady func() bool, metricsEnabled bool) *DebugModule {
	return &DebugModule{Gatherer: g, DatabaseReady: dbReady, MetricsEnabled: metricsEnabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.health)
	if m.MetricsEnabled && m.Gatherer != nil {
		rg.GET("/debug/metrics", gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}
}

// health never opens the database; it reports whether it has been opened.
func (m *DebugModule) health(c *gin.Context) {
	db := "idle"
	if m.DatabaseReady != nil && m.DatabaseReady() {
		db = "connected"
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "database": db})
}
