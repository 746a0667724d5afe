// Package score produces the live score.
//
// A Producer owns the current Snapshot in a Store, advances it on every
// tick with a Transition and publishes each new Snapshot. It never looks at
// subscribers: the state advances whether zero or many clients listen.
//
//	hub := sse.NewHub[score.Snapshot]()
//	p := score.NewProducer(cfg, hub)
//	err := p.Run(ctx)
package score
