// Package catalog provides the read-only product lookup used to build orders.
//
// A catalog is loaded once at startup from a CUE or YAML file, or from the
// embedded default menu, and never changes during a session.
//
// # CUE catalogs
//
// CUE files are unified with an embedded schema before any product is read:
//
//	#Product: {
//	    id:    string & !=""
//	    name:  string & !=""
//	    price: number & >=0
//	}
//	products: [...#Product]
//
// Prices are read from the exact decimal literal, so "1.10" stays 1.10.
//
// # YAML catalogs
//
// YAML files use the same shape. Unknown fields are rejected.
package catalog
