/*
Package session tracks the live generation channels of a client session.

A scene may have at most one open channel. The Manager serializes opens per scene
with reference-counted locks and closes the previous channel before a new one is
dialed, so surfaces that share a store (CLI, MCP) cannot interleave two streams
into the same scene.
*/
package session
