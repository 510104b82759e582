package utils

import "testing"

func TestManualClock(t *testing.T) {
	c := NewManualClock(100)
	if c.NowMillis() != 100 {
		t.Errorf("NowMillis() = %v, 期望 100", c.NowMillis())
	}
	if got := c.Advance(16.5); got != 116.5 {
		t.Errorf("Advance() = %v, 期望 116.5", got)
	}
	c.Set(5000)
	if c.NowMillis() != 5000 {
		t.Errorf("NowMillis() = %v, 期望 5000", c.NowMillis())
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	c := NewSystemClock()
	a := c.NowMillis()
	b := c.NowMillis()
	if a < 0 || b < a {
		t.Errorf("系统时钟应单调不减: %v, %v", a, b)
	}
}
