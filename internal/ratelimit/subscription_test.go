package ratelimit

import "testing"

func smallConfig() SubscriptionConfig {
	return SubscriptionConfig{
		MaxSubsPerClient:   3,
		SubRatePerSecond:   1,
		SubBurstLimit:      2,
		ViolationThreshold: 2,
		BlockDuration:      1000000000, // 1s, doesn't matter for this test
	}
}

func TestCanSubscribeAllowsWithinBurst(t *testing.T) {
	l := NewSubscriptionLimiter(smallConfig())

	ok, _ := l.CanSubscribe("client1", "topicA")
	if !ok {
		t.Fatalf("want first subscription allowed")
	}
	l.RecordSubscription("client1", "topicA")

	ok, _ = l.CanSubscribe("client1", "topicB")
	if !ok {
		t.Fatalf("want second subscription allowed (within burst of 2)")
	}
	l.RecordSubscription("client1", "topicB")
}

func TestCanSubscribeAllowsAlreadySubscribedWithoutSpendingToken(t *testing.T) {
	l := NewSubscriptionLimiter(smallConfig())
	l.RecordSubscription("client1", "topicA")

	ok, reason := l.CanSubscribe("client1", "topicA")
	if !ok {
		t.Fatalf("want re-subscribe to same topic allowed, got reason %q", reason)
	}
}

func TestCanSubscribeRejectsOverMaxSubscriptions(t *testing.T) {
	l := NewSubscriptionLimiter(smallConfig())
	l.RecordSubscription("client1", "a")
	l.RecordSubscription("client1", "b")
	l.RecordSubscription("client1", "c")

	ok, reason := l.CanSubscribe("client1", "d")
	if ok {
		t.Fatalf("want subscription rejected at max (3), got allowed")
	}
	if reason == "" {
		t.Fatalf("want a reason string")
	}
}

func TestCanSubscribeBlocksAfterViolationThreshold(t *testing.T) {
	l := NewSubscriptionLimiter(smallConfig())
	l.RecordSubscription("client1", "a")
	l.RecordSubscription("client1", "b")
	l.RecordSubscription("client1", "c")

	// Two violations (max subs exceeded) should hit ViolationThreshold=2 and block.
	l.CanSubscribe("client1", "d")
	l.CanSubscribe("client1", "e")

	stats := l.GetClientStats("client1")
	if !stats.Blocked {
		t.Fatalf("want client blocked after violation threshold reached")
	}
}

func TestRemoveClientClearsState(t *testing.T) {
	l := NewSubscriptionLimiter(smallConfig())
	l.RecordSubscription("client1", "a")
	l.RemoveClient("client1")

	stats := l.GetClientStats("client1")
	if stats.Subscriptions != 0 {
		t.Fatalf("want cleared state, got %+v", stats)
	}
}

func TestGetGlobalStatsCountsClients(t *testing.T) {
	l := NewSubscriptionLimiter(smallConfig())
	l.RecordSubscription("client1", "a")
	l.RecordSubscription("client2", "b")

	stats := l.GetGlobalStats()
	if stats.TotalClients != 2 || stats.TotalSubscriptions != 2 {
		t.Fatalf("unexpected global stats: %+v", stats)
	}
}
