// Package store is the record store adapter: key/value and scan access
// over the Users, Products, Orders and Carts collections plus the two
// append-only log collections.
//
// Operations are independent statements. Nothing here is atomic across
// keys except work run inside Store.Transaction.
package store
