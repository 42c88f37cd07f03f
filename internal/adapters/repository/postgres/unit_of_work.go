package postgres

import (
	"context"
	"database/sql"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) PackRepo() port.PackRepository {
	if u.tx != nil {
		return NewSqlPackRepository(u.tx)
	}
	return NewSqlPackRepository(u.db)
}

func (u *sqlUnitOfWork) TagRepo() port.TagRepository {
	if u.tx != nil {
		return NewSqlTagRepository(u.tx)
	}
	return NewSqlTagRepository(u.db)
}

func (u *sqlUnitOfWork) HarmonizedRepo() port.HarmonizedRepository {
	if u.tx != nil {
		return NewSqlHarmonizedRepository(u.tx)
	}
	return NewSqlHarmonizedRepository(u.db)
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
