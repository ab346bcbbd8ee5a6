package tokenrepofake

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/tokens"
)

var _ tokens.Repo = (*FakeTokenRepo)(nil)

type FakeTokenRepo struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		values: make(map[string]string),
	}
}

func (r *FakeTokenRepo) Get(_ context.Context, key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (r *FakeTokenRepo) Set(_ context.Context, key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.values[key] = value
	return nil
}

func (r *FakeTokenRepo) Delete(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.values, key)
	return nil
}

// Keys lists the stored keys in sorted order.
func (r *FakeTokenRepo) Keys() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
