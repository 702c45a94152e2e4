package notificationController

import (
	"testing"

	"restocoach/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestListQueryParse(t *testing.T) {
	tests := []struct {
		name       string
		query      ListQuery
		wantUnread bool
		wantLimit  int
		wantError  bool
	}{
		{name: "defaults", query: ListQuery{}},
		{name: "unread only", query: ListQuery{Unread: "true", Limit: "5"}, wantUnread: true, wantLimit: 5},
		{name: "bad flag", query: ListQuery{Unread: "maybe"}, wantError: true},
		{name: "bad limit", query: ListQuery{Limit: "0"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unread, limit, err := tt.query.parse()
			if tt.wantError {
				assert.ErrorIs(t, err, services.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantUnread, unread)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
