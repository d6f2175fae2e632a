package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelayClients 当前连接的 websocket 客户端数
	RelayClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hint",
		Subsystem: "relay",
		Name:      "clients",
		Help:      "Number of currently connected relay clients.",
	})

	// RelayBroadcasts 广播出去的事件总数
	RelayBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hint",
		Subsystem: "relay",
		Name:      "broadcasts_total",
		Help:      "Total number of events fanned out to relay clients.",
	})

	// RelayDropped 因客户端消费过慢被丢弃的事件数
	RelayDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hint",
		Subsystem: "relay",
		Name:      "dropped_total",
		Help:      "Events dropped because a client send buffer was full.",
	})

	// CounterQueueDepth profile 计数器异步队列深度（采样值）
	CounterQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hint",
		Subsystem: "counters",
		Name:      "queue_depth",
		Help:      "Sampled depth of the async profile counter queue.",
	})
)
