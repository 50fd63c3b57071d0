/*Package csql provides the jobster postgres database handle.

It wraps a standard sql.DB with the database schema the service operates
in, runs the embedded goose migrations, and provides the partial-update
statement builder used by the entity repositories.
*/
package csql

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/jobster/jobster/core/csql/migrations"
)

// DB encapsulates a standard sql.DB with a schema
type DB struct {
	*sql.DB
	Schema string
}

// ErrNoRows is returned by Scan when QueryRow doesn't return a
// row. In such a case, QueryRow returns a placeholder *Row value that
// defers this error until a Scan.
var ErrNoRows = sql.ErrNoRows

// OpenWithSchema opens a jobster postgres database with a schema.
// The schema gets created if it does not exist yet and becomes the
// connection search path, so the embedded migrations create their
// tables inside it. The data source name can be in keyword/value or
// URL form.
func OpenWithSchema(dataSourceName, schema string) *DB {
	log.Println("connecting to postgres database: ", dataSourceName)
	if len(schema) == 0 {
		schema = "public"
	}
	dataSourceName, err := keywordDSN(dataSourceName, schema)
	if err != nil {
		panic(err)
	}
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		panic(err)
	}
	err = db.Ping()
	if err != nil {
		panic(err)
	}
	if schema != "public" {
		log.Println("selected database schema:", schema)
		_, err = db.Exec(`CREATE schema IF NOT EXISTS ` + schema + `;`)
		if err != nil {
			panic(err)
		}
	}
	return &DB{DB: db, Schema: schema}
}

// keywordDSN normalizes the data source name to keyword/value form and
// appends the search_path runtime parameter. The search path must be a
// connection parameter, not a post-connect statement, so that it holds
// on every connection of the pool.
func keywordDSN(dataSourceName, schema string) (string, error) {
	if strings.HasPrefix(dataSourceName, "postgres://") || strings.HasPrefix(dataSourceName, "postgresql://") {
		var err error
		dataSourceName, err = pq.ParseURL(dataSourceName)
		if err != nil {
			return "", err
		}
	}
	return dataSourceName + " search_path=" + schema, nil
}

// Migrate brings the schema up to date by applying the embedded
// goose migrations.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	return goose.UpContext(ctx, db.DB, ".")
}

// ClearSchema clears all the data contained in the database's schema
// Technically this is done by dropping the schema and then recreating it
func (db *DB) ClearSchema() {
	if db.Schema == "public" {
		panic("refuse to drop public schema")
	}
	_, err := db.Exec(`DROP SCHEMA ` + db.Schema + ` CASCADE;
	CREATE schema IF NOT EXISTS ` + db.Schema + `;`)
	if err != nil {
		log.Println("clear schema error:", db.Schema, err.Error())
	}
}
