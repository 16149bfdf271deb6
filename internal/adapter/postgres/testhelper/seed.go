package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// Colour is a row of a table created by SeedColours.
type Colour struct {
	ID   uuid.UUID
	Name string
	Hex  string
}

// SeedColours creates a uniquely named table (id uuid, name, hex) holding
// one row per name and drops it on cleanup. Returns the table name and the
// rows in insertion order.
func SeedColours(t *testing.T, pool *pgxpool.Pool, names ...string) (string, []Colour) {
	t.Helper()
	ctx := context.Background()

	table := "colours_" + uniqueSuffix()
	ident := pgx.Identifier{table}.Sanitize()

	_, err := pool.Exec(ctx, `CREATE TABLE `+ident+` (
		id   UUID PRIMARY KEY,
		name TEXT NOT NULL,
		hex  TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("testhelper: SeedColours create table: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DROP TABLE IF EXISTS `+ident)
	})

	colours := make([]Colour, len(names))
	for i, name := range names {
		c := Colour{ID: uuid.New(), Name: name, Hex: "#" + uniqueSuffix()[:6]}
		_, err := pool.Exec(ctx,
			`INSERT INTO `+ident+` (id, name, hex) VALUES ($1, $2, $3)`,
			c.ID, c.Name, c.Hex,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedColours insert %q: %v", name, err)
		}
		colours[i] = c
	}

	return table, colours
}
