package dispatcher

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	rewardTotal prometheus.Counter
	skippedZero prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsReg  *metrics
)

func defaultMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsReg = &metrics{
			rewardTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "lease",
				Subsystem: "dispatch",
				Name:      "reward_total",
				Help:      "Total native-currency reward amount minted and pushed to LPPs across all dispatches.",
			}),
			skippedZero: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "lease",
				Subsystem: "dispatch",
				Name:      "zero_reward_total",
				Help:      "Count of dispatch runs that computed a zero reward and sent nothing.",
			}),
		}
		prometheus.MustRegister(metricsReg.rewardTotal, metricsReg.skippedZero)
	})
	return metricsReg
}
