// Package dataset implements the ingestion workflow: load a batch of register
// files, replace the current dataset, record the import log and announce the
// new dataset.
//
// The service depends on the repository interface defined in this package.
// Repository implementations live in repository/postgres/ and repository/memory/.
package dataset
