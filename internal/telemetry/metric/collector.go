package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/redline/internal/infra/buildinfo"
)

// CountFunc reports the number of saved connections.
type CountFunc func() (int, error)

// Collector exports build information and, when a store is open, the
// number of saved connections.
type Collector struct {
	count CountFunc

	buildInfo *prometheus.Desc
	saved     *prometheus.Desc
}

// NewCollector creates a collector. count may be nil.
func NewCollector(count CountFunc) *Collector {
	return &Collector{
		count: count,
		buildInfo: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "build_info"),
			"Build information, value is always 1.",
			[]string{"version", "commit", "go_version"}, nil,
		),
		saved: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "saved_connections"),
			"Connections in the credential store.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.buildInfo
	if c.count != nil {
		ch <- c.saved
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	info := buildinfo.Get()
	ch <- prometheus.MustNewConstMetric(c.buildInfo, prometheus.GaugeValue, 1,
		info.Version, info.Commit, info.GoVersion)

	if c.count == nil {
		return
	}
	n, err := c.count()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.saved, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.saved, prometheus.GaugeValue, float64(n))
}
