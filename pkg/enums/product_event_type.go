package enums

import "fmt"

// ProductEventType enumerates the engagement signals recorded against a product.
type ProductEventType string

const (
	ProductEventView     ProductEventType = "view"
	ProductEventCartAdd  ProductEventType = "cart_add"
	ProductEventFavorite ProductEventType = "favorite"
)

var validProductEventTypes = []ProductEventType{
	ProductEventView,
	ProductEventCartAdd,
	ProductEventFavorite,
}

func (e ProductEventType) IsValid() bool {
	for _, candidate := range validProductEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseProductEventType converts the raw string to ProductEventType.
func ParseProductEventType(value string) (ProductEventType, error) {
	for _, candidate := range validProductEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product event type %q", value)
}
