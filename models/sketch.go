package models

import "time"

// Sketch представляет загруженный пользователем набросок.
// Filename - ключ файла во внешнем хранилище, сам файл этой записи не принадлежит.
type Sketch struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Filename    string    `db:"filename" json:"filename"`
	UserID      int64     `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OwnerID возвращает ID владельца наброска.
func (s *Sketch) OwnerID() int64 {
	return s.UserID
}

// SketchSummary - элемент ленты набросков.
// LikeCount и CommentCount вычисляются при чтении и нигде не хранятся.
type SketchSummary struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Filename     string    `db:"filename" json:"filename"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	Artist       string    `db:"artist" json:"artist"`
	LikeCount    int64     `db:"like_count" json:"like_count"`
	CommentCount int64     `db:"comment_count" json:"comment_count"`
}

// UploadResponse представляет тело ответа при успешной загрузке наброска.
type UploadResponse struct {
	Message  string `json:"message"`
	SketchID int64  `json:"sketch_id"`
	Filename string `json:"filename"`
}
