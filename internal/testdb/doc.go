//go:build integration

// Package testdb provides utilities for PostgreSQL integration tests.
//
// Each test gets a migrated database. When CODELE_TEST_DB_URL or DATABASE_URL
// is set that database is used directly, otherwise a disposable postgres
// container is started with testcontainers.
//
// Tests isolate themselves with WithTx, which runs the test body in a
// transaction that is always rolled back:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    puzzles := postgres.NewPostgresPuzzleStore(tx, nil)
//	    // ...
//	})
package testdb
