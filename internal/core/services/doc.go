// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The two core services are RecordGateway, which translates every remote
// failure into a fallback value, and QueryStream, which debounces,
// de-duplicates and orders incremental searches.
package services
