package repository

import (
	"context"
	"testing"

	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/testutil"
)

func TestMetaRepositoryUpsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMetaRepository(db)
	ctx := context.Background()

	post := testutil.InsertPost(t, db, "pies", "Apple Pie", nil)

	if _, found, err := repo.Get(ctx, post.ID, "_pie_type"); err != nil || found {
		t.Fatalf("expected no value before first save, found=%v err=%v", found, err)
	}

	if err := repo.Upsert(ctx, post.ID, "_pie_type", "Fruit Pie"); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := repo.Upsert(ctx, post.ID, "_pie_type", "Custard Pie"); err != nil {
		t.Fatalf("Upsert overwrite error: %v", err)
	}

	value, found, err := repo.Get(ctx, post.ID, "_pie_type")
	if err != nil || !found {
		t.Fatalf("Get error: found=%v err=%v", found, err)
	}
	if value != "Custard Pie" {
		t.Fatalf("unexpected value: %q", value)
	}

	var count int64
	if err := db.Model(&model.PostMeta{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row per key, got %d", count)
	}
}

func TestMetaRepositoryGetForPosts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMetaRepository(db)
	ctx := context.Background()

	a := testutil.InsertPost(t, db, "pies", "Apple Pie", map[string]string{"_pie_type": "Fruit Pie", "_description": "Classic"})
	b := testutil.InsertPost(t, db, "pies", "Pecan Pie", map[string]string{"_pie_type": "Nut Pie"})
	c := testutil.InsertPost(t, db, "pies", "Plain Pie", nil)

	values, err := repo.GetForPosts(ctx, []uint{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatalf("GetForPosts error: %v", err)
	}
	if values[a.ID]["_description"] != "Classic" || values[b.ID]["_pie_type"] != "Nut Pie" {
		t.Fatalf("unexpected values: %+v", values)
	}
	if len(values[c.ID]) != 0 {
		t.Fatalf("expected no values for post without meta, got %+v", values[c.ID])
	}

	empty, err := repo.GetForPosts(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result, got %+v err=%v", empty, err)
	}
}
