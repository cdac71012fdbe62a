// Package main provides the entry point of GoBookshelf, a web application for
// books, authors and libraries. It serves html pages with session login and a
// json REST api with token login on fiber, persists through gorm on sqlite,
// mysql or postgres and checks every request against role and group grants.
package main
