// Package testdb provides database fixtures for tests.
//
// Open returns a private in-memory SQLite database with every migration
// applied, so store and service tests run without external services. Each
// call yields a fresh database; there is nothing to clean up between tests.
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.Open(t)
//	    cards := sqlstore.NewCardStore(db, testdb.Dialect(), nil)
//	    ...
//	}
//
// OpenPostgres connects to the database named by SCRY_TEST_DATABASE_URL and
// skips the test when the variable is unset. Tests using it carry the
// integration build tag.
package testdb
