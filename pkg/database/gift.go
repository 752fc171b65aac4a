package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelmv/presenteio/pkg/model"
)

type GiftRepository interface {
	Insert(ctx context.Context, g *model.Gift) error
	Get(ctx context.Context, id string) (model.Gift, error)
	ListByList(ctx context.Context, listID string) ([]model.Gift, error)
	// Update touches name/description/image only. Reservation columns are not
	// reachable from this statement on purpose.
	Update(ctx context.Context, id, name, description, imageURL string) error
	Delete(ctx context.Context, id string) error
	// Reserve claims the gift for reserverName. The claim is a single conditional
	// write guarded by "reserver_name is null"; zero affected rows is the race
	// signal, not an infrastructure error.
	Reserve(ctx context.Context, id, reserverName string, at time.Time) error
	// Release clears the reservation. Releasing an available gift is a no-op success.
	Release(ctx context.Context, id string) error
}

type GiftDatabase struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

func NewGiftDatabase(db *sql.DB) (*GiftDatabase, error) {
	gd := &GiftDatabase{
		db,
		make(map[string]*sql.Stmt),
	}

	for _, s := range stmts {
		prepared, err := db.Prepare(s.query)
		if err != nil {
			return nil, fmt.Errorf("can't prepare query '%s': %w", s.name, err)
		}

		gd.stmts[s.name] = prepared
	}

	return gd, nil
}

type preparedStmt struct {
	name  string
	query string
}

var (
	stmts = []preparedStmt{
		{
			name: "reserve_gift",
			query: `
				update gifts
				set reserver_name = $1, reserved_at = $2
				where id = $3
				  and reserver_name is null
			`,
		},
		{
			name: "release_gift",
			query: `
				update gifts
				set reserver_name = null, reserved_at = null
				where id = $1
			`,
		},
	}
)

func (g *GiftDatabase) Insert(ctx context.Context, gift *model.Gift) error {
	if gift.ID == "" {
		gift.ID = uuid.NewString()
	}
	if gift.CreatedAt.IsZero() {
		gift.CreatedAt = time.Now()
	}

	const q = `
		insert into gifts (id, list_id, name, description, image_url, created_at)
		values ($1, $2, $3, $4, $5, $6)
	`

	if _, err := g.db.ExecContext(ctx, q, gift.ID, gift.ListID, gift.Name, gift.Description, gift.ImageURL, gift.CreatedAt); err != nil {
		return fmt.Errorf("can't insert gift: %w", err)
	}

	return nil
}

func (g *GiftDatabase) Get(ctx context.Context, id string) (model.Gift, error) {
	const q = `
		select id, list_id, name, description, image_url, reserver_name, reserved_at, created_at
		from gifts
		where id = $1
	`

	gift, err := scanGift(g.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return model.Gift{}, mapError(err)
	}

	return gift, nil
}

func (g *GiftDatabase) ListByList(ctx context.Context, listID string) ([]model.Gift, error) {
	const q = `
		select id, list_id, name, description, image_url, reserver_name, reserved_at, created_at
		from gifts
		where list_id = $1
		order by created_at, id
	`

	rows, err := g.db.QueryContext(ctx, q, listID)
	if err != nil {
		return nil, fmt.Errorf("can't query gifts: %w", err)
	}
	defer rows.Close()

	gifts := make([]model.Gift, 0)
	for rows.Next() {
		gift, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("can't scan gift: %w", err)
		}

		gifts = append(gifts, gift)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over gifts: %w", err)
	}

	return gifts, nil
}

func (g *GiftDatabase) Update(ctx context.Context, id, name, description, imageURL string) error {
	const q = `
		update gifts
		set name = $1, description = $2, image_url = $3
		where id = $4
	`

	res, err := g.db.ExecContext(ctx, q, name, description, imageURL, id)
	if err != nil {
		return fmt.Errorf("can't update gift: %w", err)
	}

	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("can't get affected rows: %w", err)
	} else if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g *GiftDatabase) Delete(ctx context.Context, id string) error {
	const q = `delete from gifts where id = $1`

	res, err := g.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("can't delete gift: %w", err)
	}

	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("can't get affected rows: %w", err)
	} else if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g *GiftDatabase) Reserve(ctx context.Context, id, reserverName string, at time.Time) error {
	res, err := g.stmts["reserve_gift"].ExecContext(ctx, reserverName, at, id)
	if err != nil {
		return fmt.Errorf("can't update gift: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't get affected rows: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either somebody claimed the gift first or the owner deleted it
	// mid-race. Probe which so a deleted gift never reads as "reserved".
	const giftExists = `select exists (select 1 from gifts where id = $1)`

	var exists bool
	if err := g.db.QueryRowContext(ctx, giftExists, id).Scan(&exists); err != nil {
		return fmt.Errorf("can't check if gift exists: %w", err)
	}

	if !exists {
		return ErrNotFound
	}

	return model.ErrAlreadyReserved
}

func (g *GiftDatabase) Release(ctx context.Context, id string) error {
	res, err := g.stmts["release_gift"].ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("can't update gift: %w", err)
	}

	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("can't get affected rows: %w", err)
	} else if affected == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGift(row scanner) (model.Gift, error) {
	var (
		gift         model.Gift
		reserverName sql.NullString
		reservedAt   sql.NullTime
	)

	err := row.Scan(&gift.ID, &gift.ListID, &gift.Name, &gift.Description, &gift.ImageURL, &reserverName, &reservedAt, &gift.CreatedAt)
	if err != nil {
		return model.Gift{}, err
	}

	if reserverName.Valid {
		gift.ReserverName = reserverName.String
	}
	if reservedAt.Valid {
		at := reservedAt.Time
		gift.ReservedAt = &at
	}

	return gift, nil
}
