package migration

import (
	"database/sql"
	_ "embed"
	"log"
)

//go:embed init.sql
var schema string

func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	log.Println("Migrations completed")
	return nil
}
