package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelmv/presenteio/pkg/model"
)

type ListRepository interface {
	Insert(ctx context.Context, l *model.List) error
	Get(ctx context.Context, id string) (model.List, error)
	GetPageByOwner(ctx context.Context, ownerID string, num, size int) ([]model.List, int, error)
	Update(ctx context.Context, id, title, description string, public bool, eventDate *time.Time) error
	// Delete removes the list and all its gifts in one transaction.
	Delete(ctx context.Context, id string) error
}

type ListDatabase struct {
	DB *sql.DB
}

func (ld *ListDatabase) Insert(ctx context.Context, l *model.List) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}

	const q = `
		insert into lists (id, owner_id, owner_email, title, description, is_public, event_date, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := ld.DB.ExecContext(ctx, q, l.ID, l.OwnerID, l.OwnerEmail, l.Title, l.Description, l.Public, l.EventDate, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("can't insert list: %w", err)
	}

	return nil
}

func (ld *ListDatabase) Get(ctx context.Context, id string) (model.List, error) {
	const q = `
		select id, owner_id, owner_email, title, description, is_public, event_date, created_at
		from lists
		where id = $1
	`

	var (
		l         model.List
		eventDate sql.NullTime
	)

	err := ld.DB.QueryRowContext(ctx, q, id).
		Scan(&l.ID, &l.OwnerID, &l.OwnerEmail, &l.Title, &l.Description, &l.Public, &eventDate, &l.CreatedAt)
	if err != nil {
		return model.List{}, mapError(err)
	}

	if eventDate.Valid {
		d := eventDate.Time
		l.EventDate = &d
	}

	return l, nil
}

func (ld *ListDatabase) GetPageByOwner(ctx context.Context, ownerID string, num, size int) ([]model.List, int, error) {
	q := `
		select count(*) from lists where owner_id = $1
	`
	var total int
	if err := ld.DB.QueryRowContext(ctx, q, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("can't count lists: %w", err)
	}

	offset := (num - 1) * size
	q = `
		select id, owner_id, owner_email, title, description, is_public, event_date, created_at
		from lists
		where owner_id = $1
		order by created_at desc
		limit $2 offset $3
	`
	rows, err := ld.DB.QueryContext(ctx, q, ownerID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("can't query lists: %w", err)
	}
	defer rows.Close()

	ls := make([]model.List, 0, size)
	for rows.Next() {
		var (
			l         model.List
			eventDate sql.NullTime
		)

		if err := rows.Scan(&l.ID, &l.OwnerID, &l.OwnerEmail, &l.Title, &l.Description, &l.Public, &eventDate, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("can't scan list: %w", err)
		}

		if eventDate.Valid {
			d := eventDate.Time
			l.EventDate = &d
		}

		ls = append(ls, l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating over lists: %w", err)
	}

	return ls, total, nil
}

func (ld *ListDatabase) Update(ctx context.Context, id, title, description string, public bool, eventDate *time.Time) error {
	const q = `
		update lists
		set title = $1, description = $2, is_public = $3, event_date = $4
		where id = $5
	`

	res, err := ld.DB.ExecContext(ctx, q, title, description, public, eventDate, id)
	if err != nil {
		return fmt.Errorf("can't update list: %w", err)
	}

	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("can't get affected rows: %w", err)
	} else if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (ld *ListDatabase) Delete(ctx context.Context, id string) error {
	return WithTx(ld.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `delete from gifts where list_id = $1`, id); err != nil {
			return fmt.Errorf("can't delete list's gifts: %w", err)
		}

		res, err := tx.ExecContext(ctx, `delete from lists where id = $1`, id)
		if err != nil {
			return fmt.Errorf("can't delete list: %w", err)
		}

		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("can't get affected rows: %w", err)
		} else if affected == 0 {
			return ErrNotFound
		}

		return nil
	})
}
