package postprocess

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	stageDecode = "decode"
	stageNMS    = "nms"
	stageSelect = "select"
	stageMask   = "mask"
)

// Metrics are prometheus collectors for post processing.  A nil *Metrics
// records nothing.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	Candidates    prometheus.Counter
	Detections    prometheus.Counter
}

// NewMetrics creates the post processing collectors and registers them with
// reg, if reg is nil they are left unregistered
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {

	m := &Metrics{
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yolact",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each post processing stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"stage"}),
		Candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yolact",
			Name:      "candidates_total",
			Help:      "Candidate detections passing the confidence threshold.",
		}),
		Detections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yolact",
			Name:      "detections_total",
			Help:      "Detections returned after NMS and top k selection.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.StageDuration, m.Candidates, m.Detections} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeStage(stage string, start time.Time) {
	if m == nil {
		return
	}

	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (m *Metrics) addCandidates(n int) {
	if m == nil {
		return
	}

	m.Candidates.Add(float64(n))
}

func (m *Metrics) addDetections(n int) {
	if m == nil {
		return
	}

	m.Detections.Add(float64(n))
}
