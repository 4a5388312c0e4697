// Package controllers holds the page logic of the employee pages: the bills
// list and the new-bill form. Controllers expose named handlers; the host
// binds them to its own events and surfaces.
package controllers
