package domain

import "time"

type Order struct {
	ID          string     `json:"id"`
	Lines       []CartLine `json:"cart"`
	DateOrdered time.Time  `json:"dateOrdered"`
}
