package ratelimit

import "testing"

func TestCheckRequestAllowsUnderLimits(t *testing.T) {
	l := NewRequestLimiter(RequestConfig{WindowDuration: 60000000000, MaxRequestsPerWindow: 2, CostHardLimit: 10})

	ok, _ := l.CheckRequest("client1", 1)
	if !ok {
		t.Fatalf("want request allowed under limits")
	}
	l.RecordRequest("client1", 1)
}

func TestCheckRequestRejectsOverCount(t *testing.T) {
	l := NewRequestLimiter(RequestConfig{WindowDuration: 60000000000, MaxRequestsPerWindow: 1, CostHardLimit: 100})
	l.RecordRequest("client1", 1)

	ok, reason := l.CheckRequest("client1", 1)
	if ok {
		t.Fatalf("want request rejected over max count")
	}
	if reason == "" {
		t.Fatalf("want a reason")
	}
}

func TestCheckRequestRejectsOverCost(t *testing.T) {
	l := NewRequestLimiter(RequestConfig{WindowDuration: 60000000000, MaxRequestsPerWindow: 1000, CostHardLimit: 5})
	l.RecordRequest("client1", 4)

	ok, _ := l.CheckRequest("client1", 2)
	if ok {
		t.Fatalf("want request rejected: 4 + 2 > cost hard limit of 5")
	}
}

func TestGetCostRemainingTracksRecordedCost(t *testing.T) {
	l := NewRequestLimiter(RequestConfig{WindowDuration: 60000000000, MaxRequestsPerWindow: 1000, CostHardLimit: 10})
	l.RecordRequest("client1", 3)

	if got := l.GetCostRemaining("client1"); got != 7 {
		t.Fatalf("want 7 remaining, got %v", got)
	}
}

func TestRemoveClientClearsRequestState(t *testing.T) {
	l := NewRequestLimiter(DefaultRequestConfig())
	l.RecordRequest("client1", 5)
	l.RemoveClient("client1")

	if got := l.GetCostRemaining("client1"); got != l.cfg.CostHardLimit {
		t.Fatalf("want full budget restored after removal, got %v", got)
	}
}
