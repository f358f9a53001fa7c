package models

import "time"

// LikeState - результат переключения лайка.
type LikeState string

const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)

// Like - отметка "нравится". Само существование записи означает лайк,
// пара (UserID, SketchID) уникальна.
type Like struct {
	ID        int64     `db:"id" json:"-"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SketchID  int64     `db:"sketch_id" json:"sketch_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Comment представляет комментарий к наброску.
// Author заполняется из таблицы users при чтении и не хранится повторно.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	Content   string    `db:"content" json:"content"`
	UserID    int64     `db:"user_id" json:"-"`
	SketchID  int64     `db:"sketch_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Author    string    `db:"author" json:"author"`
}

// CommentRequest представляет тело запроса на добавление комментария.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse представляет тело ответа при добавлении комментария.
type CommentResponse struct {
	Message   string `json:"message"`
	CommentID int64  `json:"comment_id"`
}

// LikeResponse представляет тело ответа на переключение лайка.
type LikeResponse struct {
	Message string    `json:"message"`
	Action  LikeState `json:"action"`
	Liked   bool      `json:"liked"`
}
