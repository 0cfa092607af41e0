// migrate aplica las migraciones SQL embebidas contra Postgres.
//
// Uso:
//
//	migrate            # aplica todo lo pendiente
//	migrate -status    # muestra qué está aplicado
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	migrations "github.com/clinicia-hq/clinicia-server/migrations/postgres"
)

func main() {
	status := flag.Bool("status", false, "mostrar estado sin aplicar")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL es requerido")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("conectar a postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migration (
			name       text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		log.Fatalf("crear tabla de migraciones: %v", err)
	}

	applied := map[string]bool{}
	rows, err := pool.Query(ctx, `SELECT name FROM schema_migration`)
	if err != nil {
		log.Fatalf("leer migraciones aplicadas: %v", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Fatalf("scan: %v", err)
		}
		applied[name] = true
	}
	rows.Close()

	entries, err := migrations.FS.ReadDir(migrations.Dir)
	if err != nil {
		log.Fatalf("leer migraciones embebidas: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if *status {
		for _, name := range names {
			mark := " "
			if applied[name] {
				mark = "x"
			}
			fmt.Printf("[%s] %s\n", mark, name)
		}
		return
	}

	pending := 0
	for _, name := range names {
		if applied[name] {
			continue
		}
		sql, err := migrations.FS.ReadFile(migrations.Dir + "/" + name)
		if err != nil {
			log.Fatalf("leer %s: %v", name, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			log.Fatalf("begin: %v", err)
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("aplicar %s: %v", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migration (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			log.Fatalf("registrar %s: %v", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			log.Fatalf("commit %s: %v", name, err)
		}
		fmt.Printf("aplicada %s\n", name)
		pending++
	}
	if pending == 0 {
		fmt.Println("nada pendiente")
	}
}
