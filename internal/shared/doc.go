// Package shared holds utilities used across the housing report
// codebase that belong to no specific domain or architectural layer.
//
// # Structure
//
// - testutil: testing helpers, currently the buffered slog handler used
//   to assert on what a component logged.
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helpers with no domain-specific logic
//
// It should NOT contain business logic, nor dependencies on other
// internal packages, so anything may import it without cycles.
package shared
