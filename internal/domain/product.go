package domain

type Product struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       Money
}
