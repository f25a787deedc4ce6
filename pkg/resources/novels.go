package resources

import (
	"context"
	"net/http"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/transport"
)

var _ ports.NovelAPI = (*Novels)(nil)

// Novels is the novel façade.
type Novels struct {
	client *transport.Client
	c      collection[domain.Novel]
}

// NewNovels creates the novel façade.
func NewNovels(client *transport.Client) *Novels {
	return &Novels{client: client, c: collection[domain.Novel]{client: client, base: "/novels"}}
}

// List returns every novel. Novels are not scoped.
func (n *Novels) List(ctx context.Context) ([]domain.Novel, error) {
	return n.c.list(ctx, nil)
}

func (n *Novels) Get(ctx context.Context, id string) (*domain.Novel, error) {
	return n.c.get(ctx, id)
}

func (n *Novels) Create(ctx context.Context, in domain.NovelInput) (*domain.Novel, error) {
	return n.c.create(ctx, in)
}

func (n *Novels) Update(ctx context.Context, id string, in domain.NovelUpdate) (*domain.Novel, error) {
	return n.c.update(ctx, id, in)
}

func (n *Novels) Delete(ctx context.Context, id string) error {
	return n.c.delete(ctx, id)
}

// GenerateOutline asks the service to draft chapters for the novel.
func (n *Novels) GenerateOutline(ctx context.Context, novelID string, params domain.OutlineParams) ([]domain.Chapter, error) {
	p, err := n.c.item(novelID, "/outline")
	if err != nil {
		return nil, err
	}
	var out []domain.Chapter
	if err := action(ctx, n.client, p, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Export downloads the manuscript. The body is returned untouched; the suggested
// filename is available through Response.Filename.
func (n *Novels) Export(ctx context.Context, novelID string) (*transport.Response, error) {
	p, err := n.c.item(novelID, "/export")
	if err != nil {
		return nil, err
	}
	return n.client.Do(ctx, transport.Request{Method: http.MethodGet, Path: p}, nil)
}

// RAGSummaries lists the summaries indexed for retrieval.
func (n *Novels) RAGSummaries(ctx context.Context, novelID string) ([]domain.RAGSummary, error) {
	p, err := n.c.item(novelID, "/rag/summaries")
	if err != nil {
		return nil, err
	}
	var out []domain.RAGSummary
	if _, err := n.client.Do(ctx, transport.Request{Method: http.MethodGet, Path: p}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.RAGSummary{}
	}
	return out, nil
}

// UpdateRAGSummary replaces the text of one indexed summary.
func (n *Novels) UpdateRAGSummary(ctx context.Context, novelID, docID, text string) (*domain.ActionResult, error) {
	p, err := transport.Path("/novels/{id}/rag/summaries/{doc_id}", novelID, docID)
	if err != nil {
		return nil, err
	}
	out := new(domain.ActionResult)
	if _, err := n.client.Do(ctx, transport.Request{Method: http.MethodPut, Path: p, Body: domain.RAGSummaryUpdate{Text: text}}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRAGSummary removes one indexed summary.
func (n *Novels) DeleteRAGSummary(ctx context.Context, novelID, docID string) (*domain.ActionResult, error) {
	p, err := transport.Path("/novels/{id}/rag/summaries/{doc_id}", novelID, docID)
	if err != nil {
		return nil, err
	}
	out := new(domain.ActionResult)
	if _, err := n.client.Do(ctx, transport.Request{Method: http.MethodDelete, Path: p}, out); err != nil {
		return nil, err
	}
	return out, nil
}
