package validation

// Messages returned to API clients.
const (
	MsgInvalidID           = "Id no válido"
	MsgNameEmpty           = "El nombre del producto no puede ir vacio"
	MsgPriceNotNumeric     = "Valor no valido"
	MsgPriceEmpty          = "El precio del producto no puede ir vacio"
	MsgPriceNotPositive    = "Precio no valido, debe ser mayor a 0"
	MsgPriceInvalid        = "Precio no valido"
	MsgAvailabilityInvalid = "La disponibilidad no es un campo válido"
)

// ProductIDRules guards every route with an :id parameter.
func ProductIDRules() []Rule {
	return []Rule{
		Param("id", IsInt, MsgInvalidID),
	}
}

func priceRules(notPositiveMsg string) []Rule {
	return []Rule{
		Body("price", IsNumeric, MsgPriceNotNumeric),
		Body("price", NotEmpty, MsgPriceEmpty),
		Body("price", GreaterThanZero, notPositiveMsg),
	}
}

// CreateProductRules guards POST /.
func CreateProductRules() []Rule {
	rules := []Rule{
		Body("name", NotEmpty, MsgNameEmpty),
	}
	return append(rules, priceRules(MsgPriceNotPositive)...)
}

// UpdateProductRules guards PUT /:id.
func UpdateProductRules() []Rule {
	rules := ProductIDRules()
	rules = append(rules, Body("name", NotEmpty, MsgNameEmpty))
	rules = append(rules, priceRules(MsgPriceInvalid)...)
	return append(rules, Body("availability", IsBoolean, MsgAvailabilityInvalid))
}
