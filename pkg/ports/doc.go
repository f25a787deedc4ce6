/*
Package ports defines the driven ports (interfaces) the domain store depends on.

These interfaces decouple the store's reconciliation logic from the HTTP façades,
so tests and alternative backends can stand in for the remote content service.

# Key Interfaces

  - NovelAPI: fetch, create and export novels; run the outline action.
  - ChapterAPI: list chapters of a novel; run the beats and summarize actions.
  - SceneAPI: list scenes of a chapter; update a scene.
  - CharacterAPI, LoreAPI: list novel-scoped collections.

Remote bundles them; pkg/resources.Set provides the HTTP-backed implementation.
*/
package ports
