// Package ui contains the Fyne desktop front-end. It renders the form, the
// detected stream list and the colored log, forwards user actions to the
// session controller and drains worker events on the Fyne main goroutine.
package ui
