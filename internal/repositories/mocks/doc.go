// Package mocks provides testify mocks of the repository interfaces for
// service tests.
package mocks
