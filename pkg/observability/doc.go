/*
Package observability provides Prometheus collectors for the folio client.

Transport requests are counted and timed by resource, method and status class.
Generation streams count opened channels, delivered chunks and terminal states.
A nil *Metrics is valid and records nothing, so components can take it unconditionally.
*/
package observability
