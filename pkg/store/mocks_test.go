package store

import (
	"context"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/stretchr/testify/mock"
)

// MockNovels simulates the novel port
type MockNovels struct {
	mock.Mock
}

func (m *MockNovels) Get(ctx context.Context, id string) (*domain.Novel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Novel), args.Error(1)
}

func (m *MockNovels) Create(ctx context.Context, in domain.NovelInput) (*domain.Novel, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Novel), args.Error(1)
}

func (m *MockNovels) GenerateOutline(ctx context.Context, novelID string, params domain.OutlineParams) ([]domain.Chapter, error) {
	args := m.Called(ctx, novelID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Chapter), args.Error(1)
}

func (m *MockNovels) Export(ctx context.Context, novelID string) (*transport.Response, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transport.Response), args.Error(1)
}

// MockChapters simulates the chapter port
type MockChapters struct {
	mock.Mock
}

func (m *MockChapters) List(ctx context.Context, novelID string) ([]domain.Chapter, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Chapter), args.Error(1)
}

func (m *MockChapters) GenerateBeats(ctx context.Context, chapterID string, params domain.BeatsParams) ([]domain.Scene, error) {
	args := m.Called(ctx, chapterID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Scene), args.Error(1)
}

func (m *MockChapters) Summarize(ctx context.Context, chapterID string) (*domain.ChapterSummary, error) {
	args := m.Called(ctx, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChapterSummary), args.Error(1)
}

// MockScenes simulates the scene port
type MockScenes struct {
	mock.Mock
}

func (m *MockScenes) List(ctx context.Context, chapterID string) ([]domain.Scene, error) {
	args := m.Called(ctx, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Scene), args.Error(1)
}

func (m *MockScenes) Update(ctx context.Context, sceneID string, in domain.SceneUpdate) (*domain.Scene, error) {
	args := m.Called(ctx, sceneID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scene), args.Error(1)
}

// MockCast simulates the character and lore ports
type MockCast struct {
	mock.Mock
}

func (m *MockCast) List(ctx context.Context, novelID string) ([]domain.Character, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Character), args.Error(1)
}

type MockLores struct {
	mock.Mock
}

func (m *MockLores) List(ctx context.Context, novelID string) ([]domain.Lore, error) {
	args := m.Called(ctx, novelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lore), args.Error(1)
}

type mocks struct {
	novels     *MockNovels
	chapters   *MockChapters
	scenes     *MockScenes
	characters *MockCast
	lores      *MockLores
}

func newMocks() (mocks, ports.Remote) {
	m := mocks{
		novels:     new(MockNovels),
		chapters:   new(MockChapters),
		scenes:     new(MockScenes),
		characters: new(MockCast),
		lores:      new(MockLores),
	}
	return m, ports.Remote{
		Novels:     m.novels,
		Chapters:   m.chapters,
		Scenes:     m.scenes,
		Characters: m.characters,
		Lores:      m.lores,
	}
}
