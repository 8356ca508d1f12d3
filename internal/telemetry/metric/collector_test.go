package metric

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	tests := []struct {
		name  string
		count CountFunc
		want  int
	}{
		{"build info only", nil, 1},
		{"with store", func() (int, error) { return 2, nil }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := testutil.CollectAndCount(NewCollector(tt.count)); n != tt.want {
				t.Errorf("CollectAndCount() = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestCollector_CountError(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(func() (int, error) { return 0, errors.New("store closed") }))

	if _, err := reg.Gather(); err == nil {
		t.Error("Gather() should report the count error")
	}
}
