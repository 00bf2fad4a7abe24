package device

import (
	"testing"
)

func TestGateState_String(t *testing.T) {
	tests := []struct {
		state GateState
		want  string
	}{
		{GateIdle, "Idle"},
		{GateOpen, "Open"},
		{GateState(7), "Unknown State (7)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("GateState.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultMessageFits(t *testing.T) {
	if len(DefaultMessage) == 0 || len(DefaultMessage) >= MaxMessageLen {
		t.Errorf("DefaultMessage length %d outside 1..%d", len(DefaultMessage), MaxMessageLen-1)
	}
}
