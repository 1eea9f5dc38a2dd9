package service

import "errors"

var (
	ErrInvalidMonth       = errors.New("invalid month number")
	ErrInvalidDay         = errors.New("invalid day number")
	ErrInvalidScore       = errors.New("score out of range")
	ErrUnknownCategory    = errors.New("unknown weakness category")
	ErrDayLocked          = errors.New("day is not accessible yet")
	ErrExamNotActionable  = errors.New("exam is not available")
	ErrSessionKind        = errors.New("unexpected session kind")
	ErrSessionNotFinished = errors.New("session has unanswered questions")
	ErrNoActiveSession    = errors.New("no lesson or exam in progress")
	ErrQuestionChanged    = errors.New("question was answered meanwhile")
)
