// Package bootstrap runs a service through its lifecycle: load-time config
// validation, ordered component start, hooks, a startup summary, blocking
// until a signal or a fatal component error, and graceful shutdown in
// reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(srv)
//	app.OnReady(func(ctx context.Context) error { ... })
//	err = app.Run(context.Background())
package bootstrap
