package testutil

import "github.com/questparty/backend/internal/domain/search"

type MockSearcher struct {
	IndexQuestFunc  func(id string, data search.QuestData) error
	DeleteQuestFunc func(id string) error
	SearchQuestFunc func(query string, offset, limit int) ([]string, error)
}

func (m *MockSearcher) IndexQuest(id string, data search.QuestData) error {
	if m.IndexQuestFunc != nil {
		return m.IndexQuestFunc(id, data)
	}

	return nil
}

func (m *MockSearcher) DeleteQuest(id string) error {
	if m.DeleteQuestFunc != nil {
		return m.DeleteQuestFunc(id)
	}

	return nil
}

func (m *MockSearcher) SearchQuest(query string, offset, limit int) ([]string, error) {
	if m.SearchQuestFunc != nil {
		return m.SearchQuestFunc(query, offset, limit)
	}

	return nil, nil
}

func (m *MockSearcher) Close() {}
