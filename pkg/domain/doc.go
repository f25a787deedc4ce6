/*
Package domain contains the content model shared by every layer of Folio.

It defines the entities managed by the remote authoring service (Novels, Chapters,
Scenes and their novel-scoped companions), the payloads of its AI-assisted actions,
and the Snapshot of the client-side cache together with the Diff used to announce
cache changes. This package is kept free of I/O so that façades, the store and
outer adapters can all depend on it.

# Key Entities

  - Novel, Chapter, Scene: the strictly nested content hierarchy (Novel ⊃ Chapter ⊃ Scene).
  - Character, Lore, Relationship: novel-scoped companions; Relationship is read-only.
  - RAGSummary: a retrieval-augmented reference document attached to a Novel.
  - Snapshot: a copy of every cached field of the store.
  - Change: the set of cache fields touched by one store mutation.
*/
package domain
