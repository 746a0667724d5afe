// Package component defines lifecycle-managed building blocks of the
// service: the HTTP server, the broadcast hub, the score producer and the
// telemetry providers.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse order, so a component registered later may depend on
// the ones registered before it.
//
// # Interfaces
//
//   - Component: lifecycle (Start/Stop) and health reporting
//   - Describable: one-line description for the startup summary
//   - RouteProvider: HTTP routes for the startup summary
package component
