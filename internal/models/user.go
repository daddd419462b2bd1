package models

import "github.com/google/uuid"

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"-"`

	ZipCode      string `json:"zip_code"`
	FriendRadius int    `json:"friend_radius"`

	Hobbies   string  `json:"hobbies"`
	Interests string  `json:"interests"`
	ImageURL  *string `json:"image"`
}
