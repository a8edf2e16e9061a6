// Package mocks provides gomock implementations of folio's interfaces for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/vbonduro/folio/internal/gallery Backend
