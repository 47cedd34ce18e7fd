package game

import "testing"

func TestFrameClockTick(t *testing.T) {
	c := NewFrameClock(50)

	if got := c.Tick(100); got != 0 {
		t.Errorf("Tick() before Start = %v, want 0", got)
	}

	c.Start(1000)
	if !c.Started() {
		t.Fatal("Started() should be true after Start()")
	}

	tests := []struct {
		name string
		now  float64
		want float64
	}{
		{"正常帧", 1016, 16},
		{"卡顿后限制到上限", 3000, 50},
		{"时间戳回退", 2990, 0},
		{"恢复正常", 3006.5, 16.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Tick(tt.now); got != tt.want {
				t.Errorf("Tick(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestFrameClockDefaultMaxStep(t *testing.T) {
	c := NewFrameClock(0)
	c.Start(0)
	if got := c.Tick(10000); got != DefaultMaxStepMs {
		t.Errorf("Tick() = %v, want default max %v", got, DefaultMaxStepMs)
	}
}
