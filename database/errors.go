package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names created by the migrations.
const (
	ConstraintUserEmail   = "users_email_key"
	ConstraintComicTitle  = "comics_title_active_key"
	ConstraintCommentUser = "comments_user_id_fkey"
	ConstraintRatingUser  = "ratings_user_id_fkey"
	ConstraintComicOwner  = "comics_owner_id_fkey"
)

// UniqueViolation reports whether err is a unique constraint failure and on which constraint.
func UniqueViolation(err error) (constraint string, ok bool) {
	return pgCode(err, codeUniqueViolation)
}

// ForeignKeyViolation reports whether err is a foreign key failure and on which constraint.
func ForeignKeyViolation(err error) (constraint string, ok bool) {
	return pgCode(err, codeForeignKeyViolation)
}

func pgCode(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
