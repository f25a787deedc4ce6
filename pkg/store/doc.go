/*
Package store is the domain store: the single authoritative in-memory cache of the
client session plus the orchestration of remote operations around it.

Load* calls overwrite one cached field with the fetched value. Actions patch the
cache by identifier (SummarizeChapter, UpdateScene) or trigger a dependent reload
strictly after they complete (GenerateOutline reloads chapters, GenerateBeats reloads
scenes). Reset clears everything.

Network calls run outside the cache lock and results are written only after success.
Overlapping loads of the same field are not ordered: the last to complete wins.

Consumers read copies through the getters or Snapshot, and observe mutations with
Subscribe. Every mutation that changes at least one field publishes a domain.Change.
*/
package store
