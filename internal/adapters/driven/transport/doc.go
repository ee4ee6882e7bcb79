// Package transport provides report transports for the virtual controller.
//
// Sink writes one line per report to an io.Writer, throttled to a maximum
// report rate. It stands in for a wireless link: closing it makes every
// later send fail with domain.ErrNotConnected.
package transport
