package domain

import "time"

// Thread is a discussion-thread page: the root post plus its comment tree.
type Thread struct {
	ID         string
	Author     string
	Community  string
	Permalink  string
	CreatedAt  time.Time
	Score      int
	ReplyCount int
	Title      string
	BodyText   string
	BodyHTML   string
	Comments   []CommentNode
}

// CommentNode is one comment at any depth of a thread's reply tree.
// IsOriginalPoster is computed per node against the thread root's author,
// never inherited from an ancestor.
type CommentNode struct {
	ID               string
	Author           string
	BodyText         string
	BodyHTML         string
	Score            int
	CreatedAt        time.Time
	IsOriginalPoster bool
	Replies          []CommentNode
}
