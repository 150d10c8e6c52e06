package observability

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// lifecycleOps 生命周期引擎操作计数，按操作名和结果分类
var lifecycleOps = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "myspace",
		Subsystem: "lifecycle",
		Name:      "operations_total",
		Help:      "生命周期引擎各操作的执行次数",
	},
	[]string{"operation", "result"},
)

// RecordOperation 记录一次生命周期操作的结果
func RecordOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	lifecycleOps.WithLabelValues(operation, result).Inc()
}

// MetricsHandler /metrics 端点
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
