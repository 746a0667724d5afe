// Package sse fans published values out to Server-Sent Events clients.
//
// A Hub owns one bounded queue per subscriber. Publish offers a value to
// every queue without blocking; when a queue is full the hub's DropPolicy
// decides which value that subscriber loses. A slow subscriber never delays
// the publisher or any other subscriber.
//
// A Stream adapts one Subscription to one long-lived HTTP response:
//
//	hub := sse.NewHub[score.Snapshot](sse.WithBufferSize(16))
//	mux.Handle("GET /events", sse.NewStream(hub))
//	hub.Publish(snapshot)
//
// Each value becomes one frame, "data: <json>\n\n". A value that cannot be
// serialized becomes "data: {}\n\n" so the client parser never stalls.
// Comment frames (": ...") carry the connection notice and keepalives.
//
// Termination is signalled on Subscription.Done; the queue channel itself is
// never closed. Err reports why: ErrUnsubscribed or ErrHubClosed.
package sse
