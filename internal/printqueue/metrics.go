package printqueue

import "github.com/prometheus/client_golang/prometheus"

var (
	queueLengthGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "printd",
		Subsystem: "queue",
		Name:      "length",
		Help:      "Entries waiting to start",
	})

	printingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "printd",
		Subsystem: "queue",
		Name:      "printing",
		Help:      "1 while a job is executing, 0 otherwise",
	})

	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printd",
			Subsystem: "queue",
			Name:      "jobs_total",
			Help:      "Finished jobs by outcome",
		},
		[]string{"outcome"},
	)

	jobDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "printd",
		Subsystem: "queue",
		Name:      "job_duration_seconds",
		Help:      "Execution time of a job payload",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	})

	waitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "printd",
		Subsystem: "queue",
		Name:      "wait_seconds",
		Help:      "Time between enqueue and start of a job",
		Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
	})
)

func init() {
	prometheus.MustRegister(queueLengthGauge, printingGauge, jobsTotal, jobDuration, waitDuration)
}

// outcome label values
const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
	outcomePanic  = "panic"
)
