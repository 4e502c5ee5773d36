package schemas

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Person is the example record used throughout the docs.
type Person struct {
	Name string `csv:"name" json:"name"`
	Age  uint32 `csv:"age" json:"age"`
	City string `csv:"city" json:"city"`
}

// Account exercises the lenient pgx field types.
type Account struct {
	ID      uuid.UUID      `csv:"id" json:"id"`
	Name    string         `csv:"name" json:"name"`
	Opened  pgtype.Date    `csv:"opened" json:"opened"`
	Balance pgtype.Numeric `csv:"balance" json:"balance"`
	Active  pgtype.Bool    `csv:"active" json:"active"`
}

// PriceBookEntry mirrors a product price list export.
type PriceBookEntry struct {
	ProductCode string         `csv:"product_code" json:"product_code"`
	ProductName pgtype.Text    `csv:"product_name" json:"product_name"`
	ListPrice   pgtype.Numeric `csv:"list_price" json:"list_price"`
	Active      pgtype.Bool    `csv:"active" json:"active"`
}

func init() {
	Register(Define[Person]("people", "Examples", "People"))
	Register(Define[Account]("accounts", "Finance", "Accounts"))
	Register(Define[PriceBookEntry]("price_book", "Finance", "Price Book"))
}
