package repo

import (
	"LinkKeeper/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityRepository_List_Filters(t *testing.T) {
	db := newTestDB(t)
	r := NewActivityRepository(db)
	ctx := context.Background()

	admin := "admin"
	rows := []model.ActivityLog{
		{Action: model.ActionLinkAdd, Resource: "link", ResourceID: "1", Status: model.ActivitySuccess, Actor: &admin},
		{Action: model.ActionLinkAdd, Resource: "link", ResourceID: "2", Status: model.ActivityFailed, ErrorMessage: "invalid url"},
		{Action: model.ActionTokenCreate, Resource: "token", ResourceID: "ci", Status: model.ActivitySuccess, Actor: &admin},
	}
	for i := range rows {
		assert.NoError(t, r.Create(ctx, &rows[i]))
	}

	// по действию
	got, total, err := r.List(ctx, ActivityFilter{Action: model.ActionLinkAdd})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)

	// по статусу
	_, total, err = r.List(ctx, ActivityFilter{Status: model.ActivityFailed})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// по актору
	_, total, err = r.List(ctx, ActivityFilter{Actor: "admin"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// текстовый поиск по сообщению об ошибке
	got, total, err = r.List(ctx, ActivityFilter{Search: "invalid"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ResourceID)
	}

	// пагинация
	got, total, err = r.List(ctx, ActivityFilter{Page: 2, PageSize: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, got, 1)
}
