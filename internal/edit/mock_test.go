package edit

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/muurk/shoplist/internal/item"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]item.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]item.Item)
	return items, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id int) (item.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(item.Item), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, d item.Draft) (item.Item, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(item.Item), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, it item.Item) (item.Item, error) {
	args := m.Called(ctx, it)
	return args.Get(0).(item.Item), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
