package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/pkg/entity"
)

// Todo columns joined with the category. Todo without category gets multiplier 1.0
const todoSelect = `SELECT t.id, t.user_id, t.category_id, t.title, t.description, t.due_date, t.base_coin_value, t.completed, t.completed_at, t.created_at, t.updated_at, c.name, COALESCE(c.difficulty_multiplier, 1.0)
	FROM todos t LEFT JOIN categories c ON c.id = t.category_id`

type TodosRepository struct {
	conn PgConnection
}

func NewTodosRepo(cfg DBConfig) *TodosRepository {
	return &TodosRepository{
		conn: NewPool(cfg),
	}
}

func NewTodosRepoWithConn(conn PgConnection) *TodosRepository {
	mustPing(conn, "todosRepo")
	return &TodosRepository{
		conn: conn,
	}
}

func (tr *TodosRepository) Create(ctx context.Context, todo *entity.Todo) error {
	row := tr.conn.QueryRow(ctx, `INSERT INTO todos (user_id, category_id, title, description, due_date, base_coin_value) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at;`,
		todo.UserID,
		todo.CategoryID,
		todo.Title,
		todo.Description,
		todo.DueDate,
		todo.BaseCoinValue,
	)
	if err := row.Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		code, constraint := pgErrorCode(err)
		if code == pgForeignKeyViolation {
			if constraint == "todos_category_id_fkey" {
				return errorvalues.ErrInvalidCategory
			}
			return errorvalues.ErrOwnerNotFound
		}
		return errors.New("creating todo db error: " + err.Error())
	}
	return nil
}

func (tr *TodosRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Todo, error) {
	row := tr.conn.QueryRow(ctx, todoSelect+` WHERE t.id = $1;`, id)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTodoNotFound
		}
		return nil, errors.New("getting todo by id error: " + err.Error())
	}
	return todo, nil
}

func (tr *TodosRepository) GetByUserID(ctx context.Context, uid uuid.UUID, filter TodoFilter) ([]*entity.Todo, error) {
	todos := make([]*entity.Todo, 0)
	rows, err := tr.conn.Query(ctx, todoSelect+`
	WHERE t.user_id = $1 AND ($2::boolean IS NULL OR t.completed = $2) AND ($3::uuid IS NULL OR t.category_id = $3)
	ORDER BY t.due_date ASC NULLS LAST, t.created_at ASC;`, uid, filter.Completed, filter.CategoryID)
	if err != nil {
		return nil, errors.New("getting todos by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, errors.New("unmarshalling todo error: " + err.Error())
		}
		todos = append(todos, todo)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning todos: " + err.Error())
	}
	return todos, nil
}

func (tr *TodosRepository) Update(ctx context.Context, todo *entity.Todo) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE todos SET title = $1, description = $2, due_date = $3, category_id = $4, updated_at = NOW() WHERE id = $5;`,
		todo.Title, todo.Description, todo.DueDate, todo.CategoryID, todo.ID,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return errorvalues.ErrInvalidCategory
		}
		return errors.New("error updating todo: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTodoNotFound
	}
	return nil
}

func (tr *TodosRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM todos WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting todo: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTodoNotFound
	}
	return nil
}

func (tr *TodosRepository) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int, error) {
	row := tr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM todos WHERE category_id = $1;`, categoryID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting category's todos: " + err.Error())
	}
	return count, nil
}

func scanTodo(row pgx.Row) (*entity.Todo, error) {
	var t entity.Todo
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CategoryID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.BaseCoinValue,
		&t.Completed,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CategoryName,
		&t.DifficultyMultiplier,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
