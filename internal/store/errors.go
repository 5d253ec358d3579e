package store

import "github.com/pkg/errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrAlreadyResolved = errors.New("already resolved")
	ErrAlreadyMember   = errors.New("already a team member")
	ErrAlreadyOnTeam   = errors.New("already on a team for this competition")
)

const pgUniqueViolation = "23505"
