package costing

import "github.com/shopspring/decimal"

// WeightedAverage costo promedio ponderado tras una entrada de mercancía:
//
//	nuevo = (stock*costo + cantidad*costoEntrada) / (stock + cantidad)
//
// Con stock resultante <= 0 devuelve el costo de la entrada.
func WeightedAverage(stock int, cost decimal.Decimal, quantity int, entryCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	total := stock + quantity
	if total <= 0 {
		return entryCost
	}
	num := decimal.NewFromInt(int64(stock)).Mul(cost).
		Add(decimal.NewFromInt(int64(quantity)).Mul(entryCost))
	return num.Div(decimal.NewFromInt(int64(total))).Round(2)
}
