package domain

import "fmt"

// Represents a delivery location from the address table.
// ID is the stable row index of the table; index 0 is the hub.
type Address struct {
	ID     int
	Name   string
	Street string
	City   string
	State  string
	Zip    string
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.Zip)
}
