/*
Package transport is the single configured HTTP client shared by every resource façade.

It owns no state beyond configuration: an endpoint, a base path (default "/api") and a
per-request timeout (default 300000 ms). Requests and responses are JSON; non-2xx
responses become *RemoteError, network failures wrap ErrTransport.

Streams opened with Stream bypass the per-request timeout and live until the caller
cancels the context or closes the body.
*/
package transport
