package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries holds the typed statements for every table.
type Queries struct {
	db DBTX
}

// New binds the queries to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q that runs inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Notification is a row of the notifications table.
type Notification struct {
	ID          int64
	ToastID     string
	Variant     string
	Title       string
	Description string
	CreatedAt   int64
}

type InsertNotificationParams struct {
	ToastID     string
	Variant     string
	Title       string
	Description string
	CreatedAt   int64
}

const insertNotification = `INSERT INTO notifications (toast_id, variant, title, description, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertNotification,
		arg.ToastID, arg.Variant, arg.Title, arg.Description, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listNotifications = `SELECT id, toast_id, variant, title, description, created_at
FROM notifications
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListNotifications(ctx context.Context) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.ToastID, &i.Variant, &i.Title, &i.Description, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteAllNotifications = `DELETE FROM notifications`

func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNotifications)
	return err
}

const countNotifications = `SELECT COUNT(*) FROM notifications`

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countNotifications).Scan(&count)
	return count, err
}

// Post is a row of the posts table.
type Post struct {
	ID        int64
	UserID    string
	Prompt    string
	ImagePath string
	ImageUrl  string
	CreatedAt int64
}

type InsertPostParams struct {
	UserID    string
	Prompt    string
	ImagePath string
	ImageUrl  string
	CreatedAt int64
}

const insertPost = `INSERT INTO posts (user_id, prompt, image_path, image_url, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

func (q *Queries) InsertPost(ctx context.Context, arg InsertPostParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertPost,
		arg.UserID, arg.Prompt, arg.ImagePath, arg.ImageUrl, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getPost = `SELECT id, user_id, prompt, image_path, image_url, created_at
FROM posts
WHERE id = ?`

func (q *Queries) GetPost(ctx context.Context, id int64) (Post, error) {
	var i Post
	err := q.db.QueryRowContext(ctx, getPost, id).
		Scan(&i.ID, &i.UserID, &i.Prompt, &i.ImagePath, &i.ImageUrl, &i.CreatedAt)
	return i, err
}

const listPosts = `SELECT id, user_id, prompt, image_path, image_url, created_at
FROM posts
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListPosts(ctx context.Context) ([]Post, error) {
	return q.scanPosts(ctx, listPosts)
}

const listPostsByUser = `SELECT id, user_id, prompt, image_path, image_url, created_at
FROM posts
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListPostsByUser(ctx context.Context, userID string) ([]Post, error) {
	return q.scanPosts(ctx, listPostsByUser, userID)
}

const deletePost = `DELETE FROM posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePost, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countPostsByUser = `SELECT COUNT(*) FROM posts WHERE user_id = ?`

func (q *Queries) CountPostsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPostsByUser, userID).Scan(&count)
	return count, err
}

func (q *Queries) scanPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Post
	for rows.Next() {
		var i Post
		if err := rows.Scan(&i.ID, &i.UserID, &i.Prompt, &i.ImagePath, &i.ImageUrl, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
