/*
Package folio is the client-side synchronization layer of a fiction authoring service.

It talks to the service's REST API (novels, chapters, scenes, characters, lore and the
retrieval index), streams AI generated prose over Server-Sent Events, and keeps a local
cache of the entities being edited so several views can observe one consistent state.

# Layers

  - transport: one configured HTTP client with JSON encoding, typed remote errors and a
    request timeout for request/response calls.
  - resources: thin façades, one per entity kind, over the transport client.
  - store: the cached snapshot (current novel, chapters, cast, lore, scenes) with load,
    action and reconciliation operations, plus observers notified on every change.
  - stream: the generation channel for a scene, with lifecycle hooks and Close.

# Usage

	client, err := folio.New("http://localhost:8000")
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Store.LoadChapters(ctx, novelID); err != nil {
		log.Fatal(err)
	}

	unsubscribe := client.Store.Subscribe(func(c domain.Change) {
		fmt.Println("changed:", c.Fields)
	})
	defer unsubscribe()

	ch, err := client.Generate(ctx, sceneID)
	if err != nil {
		log.Fatal(err)
	}
	for chunk := range ch.Chunks() {
		fmt.Print(chunk.Text)
	}
*/
package folio
