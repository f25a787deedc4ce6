/*
Package stream implements the generation stream channel: one long-lived server-push
connection bound to a single scene request (generate or chat).

A Channel moves through Idle, Connecting, Opened, Receiving and back to Opened for every
event, and ends in Closed or Errored. Errors and closes are terminal; there is no
reconnect. Consumers read chunks from Chunks() or register Hooks, or both. After Close
returns no hook fires and no chunk is sent.
*/
package stream
