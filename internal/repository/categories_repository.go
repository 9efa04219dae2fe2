package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/pkg/entity"
)

type CategoriesRepository struct {
	conn PgConnection
}

func NewCategoriesRepo(cfg DBConfig) *CategoriesRepository {
	return &CategoriesRepository{
		conn: NewPool(cfg),
	}
}

func NewCategoriesRepoWithConn(conn PgConnection) *CategoriesRepository {
	mustPing(conn, "categoriesRepo")
	return &CategoriesRepository{
		conn: conn,
	}
}

func (cr *CategoriesRepository) Create(ctx context.Context, category *entity.Category) error {
	row := cr.conn.QueryRow(ctx, `INSERT INTO categories (user_id, name, difficulty_multiplier) VALUES ($1, $2, $3) RETURNING id, created_at;`,
		category.UserID,
		category.Name,
		category.DifficultyMultiplier,
	)
	if err := row.Scan(&category.ID, &category.CreatedAt); err != nil {
		code, _ := pgErrorCode(err)
		switch code {
		case pgUniqueViolation:
			return errorvalues.ErrCategoryExists
		case pgForeignKeyViolation:
			return errorvalues.ErrOwnerNotFound
		}
		return errors.New("creating category db error: " + err.Error())
	}
	return nil
}

func (cr *CategoriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	c := entity.Category{ID: id}
	row := cr.conn.QueryRow(ctx, `SELECT user_id, name, difficulty_multiplier, created_at FROM categories WHERE id = $1;`, id)
	if err := row.Scan(&c.UserID, &c.Name, &c.DifficultyMultiplier, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrCategoryNotFound
		}
		return nil, errors.New("getting category by id error: " + err.Error())
	}
	return &c, nil
}

func (cr *CategoriesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Category, error) {
	categories := make([]*entity.Category, 0)
	rows, err := cr.conn.Query(ctx, `SELECT id, user_id, name, difficulty_multiplier, created_at
		FROM categories WHERE user_id = $1 ORDER BY created_at DESC;`, uid)
	if err != nil {
		return nil, errors.New("getting categories by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		c := entity.Category{}
		err = rows.Scan(&c.ID, &c.UserID, &c.Name, &c.DifficultyMultiplier, &c.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling category error: " + err.Error())
		}
		categories = append(categories, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning categories: " + err.Error())
	}
	return categories, nil
}

func (cr *CategoriesRepository) Update(ctx context.Context, category *entity.Category) error {
	ct, err := cr.conn.Exec(ctx, `UPDATE categories SET name = $1, difficulty_multiplier = $2 WHERE id = $3;`,
		category.Name, category.DifficultyMultiplier, category.ID,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return errorvalues.ErrCategoryExists
		}
		return errors.New("error updating category: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}

func (cr *CategoriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := cr.conn.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		// Todos reference category with ON DELETE RESTRICT
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return errorvalues.ErrCategoryHasTodos
		}
		return errors.New("error deleting category: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}
