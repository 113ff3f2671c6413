package subscription

import "github.com/radiant-labs/rxindexer/internal/log"

// deliver invokes notify for one session, logging (not propagating) any
// delivery error, per glyph_subscriptions.py's _send_to_sessions.
func deliver(notify NotifyFunc, sessionID uint64, n Notification) {
	if err := notify(sessionID, n); err != nil {
		log.Subscription.Debug().
			Err(err).
			Uint64("session_id", sessionID).
			Str("method", n.Method).
			Msg("failed to deliver subscription notification")
	}
}

// NotifyBalanceChange notifies subscribers of a token balance change for an
// owner. topic must be the same owner||ref string used at Subscribe time.
func (r *Registry) NotifyBalanceChange(topic string, scripthash, ref []byte, newBalance uint64, delta int64) {
	r.Notify(KindBalance, topic, Notification{
		Method: "glyph.balance",
		Params: map[string]interface{}{
			"scripthash": scripthash,
			"ref":        ref,
			"balance":    newBalance,
			"delta":      delta,
		},
	})
}

// NotifyTokenChange notifies subscribers of a token-state change.
func (r *Registry) NotifyTokenChange(ref string, data interface{}) {
	r.Notify(KindToken, ref, Notification{Method: "glyph.token", Params: data})
}

// NotifyTransfer notifies subscribers of a token transfer event.
func (r *Registry) NotifyTransfer(ref string, data interface{}) {
	r.Notify(KindTransfers, ref, Notification{Method: "glyph.transfer", Params: data})
}

// NotifyOrderbookChange notifies subscribers of an orderbook add/update/remove.
func (r *Registry) NotifyOrderbookChange(pairTopic string, data interface{}) {
	r.Notify(KindOrderbook, pairTopic, Notification{Method: "swap.orderbook", Params: data})
}

// NotifyFill notifies subscribers of a trade fill.
func (r *Registry) NotifyFill(pairTopic string, data interface{}) {
	r.Notify(KindFills, pairTopic, Notification{Method: "swap.fill", Params: data})
}

// NotifyUserOrder notifies subscribers of a user's order-state change.
func (r *Registry) NotifyUserOrder(scripthashTopic string, data interface{}) {
	r.Notify(KindUserOrders, scripthashTopic, Notification{Method: "swap.user_order", Params: data})
}

// NotifyWaveNameChange notifies subscribers of a WAVE name ownership change.
// nameTopic is expected already lowercased, matching Subscribe's convention.
func (r *Registry) NotifyWaveNameChange(nameTopic string, data interface{}) {
	r.Notify(KindWaveName, nameTopic, Notification{Method: "wave.name", Params: data})
}

// NotifyDmintUpdate notifies subscribers of a dMint mining-stats update.
func (r *Registry) NotifyDmintUpdate(ref string, data interface{}) {
	r.Notify(KindDmint, ref, Notification{Method: "dmint.update", Params: data})
}
