package telemetry

import (
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{name: "ratio one samples everything", ratio: 1, want: sdktrace.AlwaysSample().Description()},
		{name: "ratio above one samples everything", ratio: 2.5, want: sdktrace.AlwaysSample().Description()},
		{name: "fractional ratio is parent based", ratio: 0.25, want: "ParentBased"},
		{name: "negative ratio clamps to zero", ratio: -1, want: "ParentBased"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := sampler(tt.ratio).Description()
			if !strings.Contains(got, tt.want) {
				t.Errorf("sampler(%v).Description() = %q, want it to contain %q", tt.ratio, got, tt.want)
			}
		})
	}
}
