package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
