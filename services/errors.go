package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// IsDuplicateEntry reports whether err is a unique-index violation. MySQL
// surfaces error 1062; the string checks catch other drivers (sqlite in
// tests).
func IsDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate entry") || strings.Contains(lc, "unique constraint")
}
