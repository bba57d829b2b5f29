package test_utils

import (
	"context"

	"github.com/memoboard/memoboard/pkg/user"
)

type TestUserProvider struct{}

func (p TestUserProvider) GetCurrentUser(ctx context.Context) (user.User, error) {
	return user.User{
		Id:          123,
		Uid:         "test_user",
		DisplayName: "Test User",
		Settings: user.Settings{
			GoogleCalendar: user.GoogleCalendarSettings{},
		},
	}, nil
}
