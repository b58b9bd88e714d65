package client

import (
	"errors"

	"github.com/dmitrijs2005/userdir/internal/common"
)

var (
	ErrUnavailable  = common.ErrUnavailable
	ErrNotFound     = common.ErrNotFound
	ErrUnauthorized = errors.New("unauthorized")
)
