package model

import "errors"

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrInputNotFound  = errors.New("input not found")
	ErrOutputNotFound = errors.New("output not found")
	ErrNotConnected   = errors.New("input not connected")
	ErrNotConnectable = errors.New("input only accepts a constant")
	ErrSelfLoop       = errors.New("connection would loop a node onto itself")
	ErrTypeMismatch   = errors.New("data types differ")
	ErrInconsistent   = errors.New("graph inconsistent")
)
