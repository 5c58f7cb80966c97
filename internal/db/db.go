package db

import "database/sql"

// DB wraps the raw sql.DB so stores depend on one package-local type.
type DB struct {
	*sql.DB
}
