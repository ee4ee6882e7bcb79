// Package domain defines the core entities for padctl.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Command: A named, documented handler invoked from the shell
//   - LoopTask: A background loop repeatedly pressing one button
//   - ControllerKind: The emulated controller and its button set
//   - ControllerSnapshot: The input state pushed to a transport
//   - SessionConfig: Settings for one interactive session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
