package subscription

import "testing"

func TestSubscribeAndNotifyDeliversToSubscriber(t *testing.T) {
	r := New()
	var got []uint64
	r.SetNotifyFunc(func(sessionID uint64, n Notification) error {
		got = append(got, sessionID)
		return nil
	})

	r.Subscribe(1, KindBalance, "owner1ref1")
	r.Subscribe(2, KindBalance, "owner1ref1")
	r.Subscribe(3, KindBalance, "owner2ref1")

	r.Notify(KindBalance, "owner1ref1", Notification{Method: "glyph.balance"})

	if len(got) != 2 {
		t.Fatalf("want 2 deliveries, got %d", len(got))
	}
}

func TestUnsubscribeRemovesFromTopic(t *testing.T) {
	r := New()
	r.Subscribe(1, KindToken, "ref1")
	if !r.Unsubscribe(1, KindToken, "ref1") {
		t.Fatalf("want unsubscribe to succeed")
	}
	if r.Unsubscribe(1, KindToken, "ref1") {
		t.Fatalf("want second unsubscribe to report false")
	}
	if r.SessionCount(KindToken, "ref1") != 0 {
		t.Fatalf("want zero sessions after unsubscribe")
	}
}

func TestUnsubscribeSessionDrainsAllTopics(t *testing.T) {
	r := New()
	r.Subscribe(5, KindToken, "refA")
	r.Subscribe(5, KindOrderbook, "pairA")
	r.Subscribe(5, KindWaveName, "myname")

	r.UnsubscribeSession(5)

	if r.SessionCount(KindToken, "refA") != 0 {
		t.Fatalf("want token subscription drained")
	}
	if r.SessionCount(KindOrderbook, "pairA") != 0 {
		t.Fatalf("want orderbook subscription drained")
	}
	if r.SessionCount(KindWaveName, "myname") != 0 {
		t.Fatalf("want wave name subscription drained")
	}
}

func TestNotifyWithoutCallbackIsNoop(t *testing.T) {
	r := New()
	r.Subscribe(1, KindDmint, "ref1")
	r.Notify(KindDmint, "ref1", Notification{Method: "dmint.update"}) // must not panic
}

func TestNotifyLogsDeliveryErrorWithoutAbortingOthers(t *testing.T) {
	r := New()
	var delivered []uint64
	r.SetNotifyFunc(func(sessionID uint64, n Notification) error {
		delivered = append(delivered, sessionID)
		if sessionID == 1 {
			return errFailingDelivery
		}
		return nil
	})
	r.Subscribe(1, KindFills, "pair1")
	r.Subscribe(2, KindFills, "pair1")

	r.Notify(KindFills, "pair1", Notification{Method: "swap.fill"})

	if len(delivered) != 2 {
		t.Fatalf("want both sessions attempted despite session 1's error, got %v", delivered)
	}
}

func TestGetStatsCountsSessionsAndTopics(t *testing.T) {
	r := New()
	r.Subscribe(1, KindBalance, "a")
	r.Subscribe(1, KindToken, "b")
	r.Subscribe(2, KindBalance, "a")

	stats := r.GetStats()
	if stats.BalanceSubscriptions != 2 {
		t.Fatalf("want 2 balance subs, got %d", stats.BalanceSubscriptions)
	}
	if stats.TokenSubscriptions != 1 {
		t.Fatalf("want 1 token sub, got %d", stats.TokenSubscriptions)
	}
	if stats.TotalSessions != 2 {
		t.Fatalf("want 2 distinct sessions, got %d", stats.TotalSessions)
	}
}

var errFailingDelivery = errTest("delivery failed")

type errTest string

func (e errTest) Error() string { return string(e) }
