// Package feed composes the post feeds: global, group, author and the
// personalized feed built from the follow graph.
//
// Every feed is returned as a paginator.Source so callers only resolve the
// page they render. All feeds are ordered newest first; posts sharing a
// timestamp keep insertion order.
package feed

import (
	"context"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/paginator"
	"github.com/anonto42/yatube/backend/internal/repositories"
)

// Posts is an ordered, windowable set of posts.
type Posts = paginator.Source[models.Post]

// Engine answers feed queries and applies follow-graph changes.
type Engine struct {
	posts   repositories.PostRepository
	groups  repositories.GroupRepository
	users   repositories.UserRepository
	follows repositories.FollowRepository
}

func NewEngine(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
) *Engine {
	return &Engine{
		posts:   postRepo,
		groups:  groupRepo,
		users:   userRepo,
		follows: followRepo,
	}
}

type postSource struct {
	repo   repositories.PostRepository
	filter repositories.PostFilter
}

func (s postSource) Count(ctx context.Context) (int64, error) {
	return s.repo.CountPosts(ctx, s.filter)
}

func (s postSource) Slice(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return s.repo.ListPosts(ctx, s.filter, offset, limit)
}

// Global returns every post.
func (e *Engine) Global() Posts {
	return postSource{repo: e.posts}
}

// Group returns the posts filed under the group with the given slug.
// repositories.ErrNotFound is returned for an unknown slug.
func (e *Engine) Group(ctx context.Context, slug string) (*models.Group, Posts, error) {
	group, err := e.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return group, postSource{repo: e.posts, filter: repositories.PostFilter{GroupID: &group.ID}}, nil
}

// AuthorFeed is a profile: the author, their posts and the follow state.
type AuthorFeed struct {
	Author *models.User
	Posts  Posts
	// HasFollowers is true when at least one user follows the author.
	HasFollowers  bool
	FollowerCount int64
	// ViewerFollows is true when the requesting user follows the author.
	ViewerFollows bool
}

// Author returns the profile feed of username. viewer may be nil for
// anonymous requests. repositories.ErrNotFound is returned for an unknown
// username.
func (e *Engine) Author(ctx context.Context, username string, viewer *models.User) (*AuthorFeed, error) {
	author, err := e.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	hasFollowers, err := e.HasFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	feed := &AuthorFeed{
		Author:       author,
		Posts:        postSource{repo: e.posts, filter: repositories.PostFilter{AuthorID: &author.ID}},
		HasFollowers: hasFollowers,
	}
	if hasFollowers {
		if feed.FollowerCount, err = e.follows.GetFollowersCount(ctx, author.ID); err != nil {
			return nil, err
		}
	}
	if viewer != nil && hasFollowers {
		if feed.ViewerFollows, err = e.follows.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}
	return feed, nil
}

// Following returns posts by the authors user follows. It is empty when the
// user follows nobody.
func (e *Engine) Following(user *models.User) Posts {
	return postSource{repo: e.posts, filter: repositories.PostFilter{FollowerID: &user.ID}}
}

// HasFollowers reports whether any user follows the author.
func (e *Engine) HasFollowers(ctx context.Context, authorID uint) (bool, error) {
	return e.follows.HasFollowers(ctx, authorID)
}

// Follow makes user follow author. Following twice, or following oneself,
// changes nothing.
func (e *Engine) Follow(ctx context.Context, user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}
	_, err := e.follows.CreateFollow(ctx, user.ID, author.ID)
	return err
}

// Unfollow removes the edge if present.
func (e *Engine) Unfollow(ctx context.Context, user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}
	return e.follows.DeleteFollow(ctx, user.ID, author.ID)
}
