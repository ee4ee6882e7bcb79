// Package controller provides the virtual controller driven adapter.
//
// Virtual holds the button and stick state of an emulated controller and
// sends a report to its transport on every push, hold, release and flush.
// Press cycles are serialised so repeat loops and the interactive shell can
// push concurrently without interleaving their reports.
package controller
