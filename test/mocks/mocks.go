package mocks

import (
	"context"
	"encoding/json"
	"fmt"
)

// KeyValueStoreMock is a lightweight mock for the storage adapter.
// Unset functions behave like an empty, healthy store.
type KeyValueStoreMock struct {
	GetItemFn    func(ctx context.Context, key string) (string, bool, error)
	SetItemFn    func(ctx context.Context, key, value string) error
	RemoveItemFn func(ctx context.Context, key string) error
	KeysFn       func(ctx context.Context, prefix string) ([]string, error)
}

func (m *KeyValueStoreMock) GetItem(ctx context.Context, key string) (string, bool, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, key)
	}
	return "", false, nil
}

func (m *KeyValueStoreMock) SetItem(ctx context.Context, key, value string) error {
	if m.SetItemFn != nil {
		return m.SetItemFn(ctx, key, value)
	}
	return nil
}

func (m *KeyValueStoreMock) RemoveItem(ctx context.Context, key string) error {
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn(ctx, key)
	}
	return nil
}

func (m *KeyValueStoreMock) Keys(ctx context.Context, prefix string) ([]string, error) {
	if m.KeysFn != nil {
		return m.KeysFn(ctx, prefix)
	}
	return nil, nil
}

// APIClientMock is a lightweight mock for the network boundary. Unset
// functions fail loudly so tests notice unexpected traffic.
type APIClientMock struct {
	GetFn    func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error)
	PostFn   func(ctx context.Context, path string, body any) (json.RawMessage, error)
	PutFn    func(ctx context.Context, path string, body any) (json.RawMessage, error)
	DeleteFn func(ctx context.Context, path string) (json.RawMessage, error)
}

func (m *APIClientMock) Get(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, path, query)
	}
	return nil, fmt.Errorf("unexpected GET %s", path)
}

func (m *APIClientMock) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	if m.PostFn != nil {
		return m.PostFn(ctx, path, body)
	}
	return nil, fmt.Errorf("unexpected POST %s", path)
}

func (m *APIClientMock) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	if m.PutFn != nil {
		return m.PutFn(ctx, path, body)
	}
	return nil, fmt.Errorf("unexpected PUT %s", path)
}

func (m *APIClientMock) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, path)
	}
	return nil, fmt.Errorf("unexpected DELETE %s", path)
}
