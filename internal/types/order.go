package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-moonshot/pkg/errors"
)

// Order is an order handed to an exchange capability. The simulation core never
// routes orders live; exchanges only validate them.
type Order struct {
	Symbol   string  `yaml:"symbol" json:"symbol" validate:"required"`
	Side     Side    `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Quantity float64 `yaml:"quantity" json:"quantity" validate:"gt=0"`
	// Price is informational for market orders
	Price float64 `yaml:"price" json:"price" validate:"gte=0"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeOrderRejected, "invalid order", err)
	}

	return nil
}
