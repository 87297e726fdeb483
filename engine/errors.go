package engine

import "errors"

var (
	ErrOutOfBounds    = errors.New("coordinate out of bounds")
	ErrOccupied       = errors.New("intersection is occupied")
	ErrNoPlayer       = errors.New("empty intersection cannot make a move")
	ErrNoOpponent     = errors.New("empty intersection has no opponent")
	ErrUnknownLabel   = errors.New("unknown player label")
	ErrAlreadyApplied = errors.New("move already applied")
	ErrNotApplied     = errors.New("move not applied")
	ErrOutOfOrder     = errors.New("move is not the last applied move")
	ErrWrongMover     = errors.New("move made by the wrong player")
	ErrNoMoves        = errors.New("no candidate moves")
)
