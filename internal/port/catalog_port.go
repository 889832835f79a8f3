package port

import "github.com/nikolayk812/ezcart/internal/domain"

type Catalog interface {
	Product(id string) (domain.Product, bool)
	Products() []domain.Product
}
