package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelmv/presenteio/pkg/config"
	"github.com/rafaelmv/presenteio/pkg/database"
)

var cfg = config.New()

// sample gifts for a demo baby-shower list
var gifts = []struct {
	name        string
	description string
}{
	{"Fraldas", "Tamanho RN ou P"},
	{"Body manga curta", "Tamanho P, cores claras"},
	{"Macacão", "Tamanho M"},
	{"Banheira", ""},
	{"Termômetro digital", ""},
	{"Babá eletrônica", ""},
	{"Kit higiene", "Com tesourinha e escova macia"},
	{"Mamadeira", "Bico de fluxo lento"},
	{"Carrinho de passeio", ""},
	{"Cadeirinha para carro", "Grupo 0+"},
}

func main() {
	t0 := time.Now()
	defer func() { log.Printf("Demo list seeded. Elapsed: %s", time.Since(t0)) }()

	db, closeDB, err := database.New(cfg.PostgresAddr, cfg.PostgresDB, cfg.PostgresUser, cfg.PostgresPassword)
	if err != nil {
		log.Fatalf("### Can't init database: %v", err)
	}
	defer closeDB()

	if err := database.Migrate(db, cfg.MigrationsPath); err != nil {
		log.Fatalf("### Can't run migrations: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("### Can't seed demo list: %v", err)
	}
}

func seed(db *sql.DB) error {
	now := time.Now()
	listID := uuid.NewString()
	eventDate := now.AddDate(0, 1, 0)

	return database.WithTx(db, func(tx *sql.Tx) error {
		const insertList = `
			insert into lists (id, owner_id, owner_email, title, description, is_public, event_date, created_at)
			values ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err := tx.Exec(insertList, listID, cfg.SeedOwnerID, cfg.SeedOwnerEmail,
			"Chá de Bebê da Ana", "Lista de presentes para o chá de bebê", true, eventDate, now)
		if err != nil {
			return fmt.Errorf("can't insert list: %w", err)
		}

		stmt, err := tx.Prepare(`insert into gifts (id, list_id, name, description, image_url, created_at) values ($1, $2, $3, $4, $5, $6)`)
		if err != nil {
			return fmt.Errorf("can't prepare stmt for inserting gift: %w", err)
		}

		for i, g := range gifts {
			if _, err := stmt.Exec(uuid.NewString(), listID, g.name, g.description, "", now.Add(time.Duration(i)*time.Millisecond)); err != nil {
				return fmt.Errorf("can't insert gift: %w", err)
			}
		}

		log.Printf("Seeded list %s with %d gifts\n", listID, len(gifts))
		return nil
	})
}
