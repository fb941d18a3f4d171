package twig

import "errors"

// Engine errors. Per-frame failures never surface as errors: a tween that
// fails is killed instead. These are returned by configuration and script
// loading, and wrapped into recovered panic logs.
var (
	ErrTargetDisposed       = errors.New("tween target is disposed")
	ErrInvalidConfig        = errors.New("invalid tween configuration")
	ErrUnknownEase          = errors.New("unknown ease")
	ErrUnknownLoopType      = errors.New("unknown loop type")
	ErrUnknownUpdateType    = errors.New("unknown update type")
	ErrUnknownFailurePolicy = errors.New("unknown nested failure policy")
	ErrUnknownAutoPlay      = errors.New("unknown autoplay mode")
	ErrEmptyScript          = errors.New("script has no steps")
	ErrUnknownAction        = errors.New("unknown script action")
)
