package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const mysqlDuplicateEntry = 1062

func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// violatedColumn reports whether a unique violation names table.column. SQLite reports
// "table.column"; MySQL reports the uq_<table>_<column> key name.
func violatedColumn(err error, table, column string) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, table+"."+column) || strings.Contains(msg, "uq_"+table+"_"+column)
}
