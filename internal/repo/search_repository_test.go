package repo

import (
	"LinkKeeper/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchRepository_Upsert_Search_Delete(t *testing.T) {
	db := newTestDB(t)
	r := NewSearchRepository(db)
	ctx := context.Background()

	assert.NoError(t, r.Upsert(ctx, &model.LinkSearchIndex{
		LinkID: 1, Title: "Go concurrency patterns", Tags: `["go"]`, Domain: "go.dev", Category: "Tech",
	}))
	assert.NoError(t, r.Upsert(ctx, &model.LinkSearchIndex{
		LinkID: 2, Title: "Figma basics", Tags: `["design"]`, Domain: "figma.com", Category: "Design",
	}))

	ids, err := r.Search(ctx, "concurrency")
	assert.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)

	// апсерт перезаписывает строку того же link_id
	assert.NoError(t, r.Upsert(ctx, &model.LinkSearchIndex{
		LinkID: 1, Title: "Rust ownership", Domain: "rust-lang.org", Category: "Tech",
	}))
	ids, err = r.Search(ctx, "concurrency")
	assert.NoError(t, err)
	assert.Empty(t, ids)
	ids, err = r.Search(ctx, "ownership")
	assert.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)

	assert.NoError(t, r.Delete(ctx, 1))
	ids, err = r.Search(ctx, "ownership")
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSearchRepository_DeleteExcept(t *testing.T) {
	db := newTestDB(t)
	r := NewSearchRepository(db)
	ctx := context.Background()

	for i := uint(1); i <= 3; i++ {
		assert.NoError(t, r.Upsert(ctx, &model.LinkSearchIndex{LinkID: i, Title: "x"}))
	}

	assert.NoError(t, r.DeleteExcept(ctx, []uint{2}))
	ids, err := r.ListIDs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)

	// пустой keep вычищает всё
	assert.NoError(t, r.DeleteExcept(ctx, nil))
	ids, err = r.ListIDs(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
