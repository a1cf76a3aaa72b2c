// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the footprint commands.
package types

import "time"

// Account identifies an X account resolved from a username.
type Account struct {
	// ID is the numeric account ID assigned by the platform.
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Username is the handle, without the leading "@".
	Username string `json:"username" yaml:"username"`
}

// Post is a normalized timeline post.
type Post struct {
	// ID is the post ID from the platform.
	ID string `json:"id" yaml:"id"`

	// Text is the post body.
	Text string `json:"text" yaml:"text"`

	// CreatedAt is the RFC 3339 creation timestamp as returned by the API,
	// or "N/A" when the field was absent.
	CreatedAt string `json:"created_at" yaml:"created_at"`

	// Likes, Reposts, and Replies are the public engagement counts.
	Likes   int `json:"likes" yaml:"likes"`
	Reposts int `json:"reposts" yaml:"reposts"`
	Replies int `json:"replies" yaml:"replies"`
}

// PostsDocument is the JSON document written by the posts command.
type PostsDocument struct {
	Account   Account   `json:"user"`
	PostCount int       `json:"post_count"`
	Posts     []Post    `json:"posts"`
	FetchedAt time.Time `json:"fetched_at"`
}

// RawPostsDocument preserves the unmodified API objects for --raw output.
type RawPostsDocument struct {
	Account map[string]any   `json:"user"`
	Posts   []map[string]any `json:"posts"`
}
