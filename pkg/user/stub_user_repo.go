package user

import (
	"context"
	"sync"
)

// StubUserRepo is an in-memory Repo used in tests.
type StubUserRepo struct {
	mu    sync.RWMutex
	users map[int]User
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{users: make(map[int]User)}
}

func (r *StubUserRepo) AddUser(u User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Id] = u
}

func (r *StubUserRepo) GetUser(ctx context.Context, id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *StubUserRepo) GetUserByUid(ctx context.Context, uid string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}
