package services

import (
	"database/sql"
	"errors"
)

var (
	// ErrFlagReasonRequired means an audit entry was flagged without a reason.
	ErrFlagReasonRequired = errors.New("flag reason is required when flagging")

	// ErrBarNotFound means no bar matches the station and bar type in play.
	ErrBarNotFound = errors.New("bar not found")

	// ErrUsernameTaken means the requested username already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrNotExtendable means extend was called on a notification type that
	// does not support it.
	ErrNotExtendable = errors.New("only reserve_no_contact notifications can be extended")
)

// requireAffected turns a zero-row update into sql.ErrNoRows so handlers can
// answer 404 instead of pretending the write happened.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
