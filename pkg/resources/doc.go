/*
Package resources provides the typed façades over the content service's REST endpoints.

Each façade (Novels, Chapters, Scenes, Characters, Lore, Relationships) translates domain
operations into transport requests and returns decoded entities. Façades are stateless:
they never cache, retry or reconcile, and errors surface unchanged from the transport.

Streaming actions (Scenes.Generate, Scenes.Chat) return a *stream.Channel the caller must Close.
*/
package resources
