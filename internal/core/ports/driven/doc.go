// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Controller: Holds input state and pushes it to a transport
//   - Transport: Receives controller reports
//   - Console: Prints results, errors and notices to the user
//   - LineReader: Supplies input lines to the interpreter
//
// # Optional Interfaces
//
//   - ConfigStore: Application configuration read by sessions and the config
//     command. Defaults apply without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
