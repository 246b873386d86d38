package repository

import "errors"

// ErrNoRowsAffected signals that an update targeted a missing row.
var ErrNoRowsAffected = errors.New("no rows affected")
