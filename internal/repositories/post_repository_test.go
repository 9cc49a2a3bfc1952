package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAssignsAuthorAndTime(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	cats := testutil.CreateGroup(t, db, "cats")

	before := time.Now().Add(-time.Second)
	post, err := repo.CreatePost(ctx, models.PostDraft{Text: "hello", GroupID: &cats.ID}, alice.ID)
	require.NoError(t, err)

	assert.NotZero(t, post.ID)
	assert.Equal(t, "alice", post.Author.Username)
	require.NotNil(t, post.Group)
	assert.Equal(t, "cats", post.Group.Slug)
	assert.True(t, post.CreatedAt.After(before))
}

func TestUpdatePostKeepsAuthorAndCreationTime(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	cats := testutil.CreateGroup(t, db, "cats")
	original := testutil.CreatePost(t, db, alice, cats, "before", testutil.Base)

	updated, err := repo.UpdatePost(ctx, original.ID, models.PostDraft{Text: "after"})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.Equal(t, alice.ID, updated.AuthorID)
	assert.True(t, testutil.Base.Equal(updated.CreatedAt))
}

func TestUpdateMissingPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewPostgresPostRepository(db).UpdatePost(context.Background(), 42, models.PostDraft{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostsWindow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := NewPostgresPostRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	for i := 0; i < 5; i++ {
		testutil.CreatePost(t, db, alice, nil, string(rune('a'+i)), testutil.Base.Add(time.Duration(i)*time.Minute))
	}

	posts, err := repo.ListPosts(ctx, PostFilter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "d", posts[0].Text)
	assert.Equal(t, "c", posts[1].Text)

	count, err := repo.CountPosts(ctx, PostFilter{AuthorID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestDeletingAuthorRemovesPostsAndComments(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	users := NewPostgresUserRepository(db)
	comments := NewPostgresCommentRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	alicePost := testutil.CreatePost(t, db, alice, nil, "alice", testutil.Base)
	bobPost := testutil.CreatePost(t, db, bob, nil, "bob", testutil.Base)
	_, err := comments.CreateComment(ctx, "bob on alice", alicePost.ID, bob.ID)
	require.NoError(t, err)
	_, err = comments.CreateComment(ctx, "alice on bob", bobPost.ID, alice.ID)
	require.NoError(t, err)
	testutil.Follow(t, db, bob, alice)

	require.NoError(t, users.DeleteUser(ctx, alice.ID))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, bobPost.ID, posts[0].ID)

	var commentCount, followCount int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&commentCount).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&followCount).Error)
	assert.Zero(t, commentCount)
	assert.Zero(t, followCount)
}

func TestDeletingGroupKeepsPosts(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	cats := testutil.CreateGroup(t, db, "cats")
	post := testutil.CreatePost(t, db, alice, cats, "meow", testutil.Base)

	require.NoError(t, NewPostgresGroupRepository(db).DeleteGroup(ctx, cats.ID))

	got, err := NewPostgresPostRepository(db).GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)
}

func TestDeletingPostRemovesComments(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice, nil, "x", testutil.Base)
	comments := NewPostgresCommentRepository(db)
	_, err := comments.CreateComment(ctx, "c", post.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, NewPostgresPostRepository(db).DeletePost(ctx, post.ID))

	left, err := comments.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
