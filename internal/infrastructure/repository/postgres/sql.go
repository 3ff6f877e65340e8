package postgres

import (
	"database/sql"
	"fmt"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// The pgbouncer transaction-pooling mode breaks server-side prepared
// statements in two recognizable ways. Detecting them lets repositories
// surface a configuration hint instead of a bare pq error.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "prepared statement")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "unnamed prepared statement does not exist") {
		return true
	}
	return strings.Contains(msg, "prepared statement") && strings.Contains(msg, "(26000)")
}

func wrapPreparedStatementErr(err error) error {
	if err == nil {
		return nil
	}
	if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
		return fmt.Errorf("%w (hint: set DB_DISABLE_PREPARED_BINARY_RESULT=true when connecting through a transaction pooler)", err)
	}
	return err
}
