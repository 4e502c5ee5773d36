package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/serdetable/table"
)

// withRegistry runs fn against an empty registry and restores the
// built-in schemas afterwards.
func withRegistry(t *testing.T, fn func()) {
	t.Helper()
	saved := All()
	Clear()
	defer func() {
		Clear()
		for _, def := range saved {
			Register(def)
		}
	}()
	fn()
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"accounts", "people", "price_book"}, Keys())

	def, ok := Get("people")
	require.True(t, ok)
	assert.Equal(t, []string{"name", "age", "city"}, def.Info.Columns)
}

func TestDefine_Parse(t *testing.T) {
	def := Define[Person]("p", "G", "P")

	records, n, err := def.Parse(table.Normalize("name age city\nJohn 30 NewYork"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []Person{{Name: "John", Age: 30, City: "NewYork"}}, records)
}

func TestDefine_ParseError(t *testing.T) {
	def := Define[Person]("p", "G", "P")

	_, _, err := def.Parse(table.Normalize("name age city\nJohn abc NewYork"))
	assert.ErrorIs(t, err, table.ErrDecode)
}

func TestRegister_Duplicate(t *testing.T) {
	withRegistry(t, func() {
		Register(Define[Person]("dup", "G", "Dup"))
		assert.Panics(t, func() {
			Register(Define[Person]("dup", "G", "Dup"))
		})
	})
}

func TestAll_SortedByGroupThenKey(t *testing.T) {
	withRegistry(t, func() {
		Register(Define[Person]("b", "Z", "B"))
		Register(Define[Person]("c", "A", "C"))
		Register(Define[Person]("a", "Z", "A"))

		var keys []string
		for _, def := range All() {
			keys = append(keys, def.Info.Key)
		}
		assert.Equal(t, []string{"c", "a", "b"}, keys)
		assert.Equal(t, 3, Count())
	})
}

func TestLookup(t *testing.T) {
	_, err := Lookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown schema "nope"`)
	assert.Contains(t, err.Error(), "people")
}

func TestTemplate(t *testing.T) {
	def, err := Lookup("price_book")
	require.NoError(t, err)

	tmpl := Template(def)
	assert.Equal(t, table.Table{{"product_code", "product_name", "list_price", "active"}}, tmpl)

	// A template round-trips to zero records.
	records, n, err := def.Parse(tmpl)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, records)
}

func TestAccountsSchema(t *testing.T) {
	def, err := Lookup("accounts")
	require.NoError(t, err)

	records, n, err := def.Parse(table.Normalize(`
		id                                    name   opened      balance     active
		6ba7b810-9dad-11d1-80b4-00c04fd430c8  Acme   01/15/2024  "$1,000.00" yes
	`))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	accounts := records.([]Account)
	assert.Equal(t, "Acme", accounts[0].Name)
	assert.True(t, accounts[0].Opened.Valid)
	assert.True(t, accounts[0].Balance.Valid)
	assert.True(t, accounts[0].Active.Bool)
}
