// Package mock_store holds generated mocks of the store package's
// interfaces, for use in orchestrator tests.
package mock_store

//go:generate -command mockgen go run go.uber.org/mock/mockgen -destination=./mocks.go github.com/srcscan/srcscan/store
//go:generate mockgen Store,Reader,Writer
