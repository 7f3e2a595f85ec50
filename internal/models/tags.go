package models

type Tag struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Color     string `json:"color" db:"color"`
	UserID    int    `json:"-" db:"user_id"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

type TagRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type TagPatch struct {
	Name  *string `json:"name" validate:"omitempty,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}
