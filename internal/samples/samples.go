// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package samples holds the demo types exercised by the xmlable CLI.
package samples

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxfi/xmlcodec"
)

type Address struct {
	xmlcodec.XMLable `xmlname:"address"`

	Street string `xmlfield:"street"`
	City   string `xmlfield:"city"`
	Zip    string `xmlfield:"zip"`
}

type Person struct {
	xmlcodec.XMLable `xmlname:"person"`

	Name    string    `xmlfield:"name,type=String"`
	Age     int       `xmlfield:"age"`
	Born    time.Time `xmlfield:"born"`
	Home    *Address  `xmlfield:"home"`
	Tags    []string  `xmlfield:"tags"`
	Married bool      `xmlfield:"married"`

	// not serialized
	Nickname string
}

type Book struct {
	xmlcodec.XMLable `xmlname:"book"`

	Title   string          `xmlfield:"title"`
	ISBN    string          `xmlfield:"isbn"`
	Price   decimal.Decimal `xmlfield:"price"`
	Pages   uint16          `xmlfield:"pages"`
	Rating  float64         `xmlfield:"rating"`
	Authors []Person        `xmlfield:"authors"`
}

// Car does not carry the tag and is written as <notXMLable/>.
type Car struct {
	Make  string
	Model string
}

func init() {
	if err := Register(xmlcodec.Default); err != nil {
		panic(err)
	}
}

// All returns one zero value of every demo type, tagged or not.
func All() []any {
	return []any{Address{}, Person{}, Book{}, Car{}}
}

// Register scans the demo types into reg.
func Register(reg *xmlcodec.TypeRegistry) error {
	_, err := reg.Scan(All()...)
	return err
}

// Objects returns a fixed set of demo values.
func Objects() []any {
	ada := Person{
		Name:    "Ada Lovelace",
		Age:     36,
		Born:    time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC),
		Home:    &Address{Street: "12 St James's Square", City: "London", Zip: "SW1Y"},
		Tags:    []string{"mathematician", "writer"},
		Married: true,
	}
	alan := Person{
		Name: "Alan Turing",
		Age:  41,
		Born: time.Date(1912, time.June, 23, 0, 0, 0, 0, time.UTC),
	}
	return []any{
		ada,
		&alan,
		Car{Make: "Fiat", Model: "500"},
		Book{
			Title:   "Sketch of the Analytical Engine",
			ISBN:    "978-0-00-000000-0",
			Price:   decimal.RequireFromString("19.99"),
			Pages:   66,
			Rating:  4.5,
			Authors: []Person{ada},
		},
	}
}
