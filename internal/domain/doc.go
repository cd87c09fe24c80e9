// Package domain holds the import log value types written by the dataset
// service and persisted by the repositories.
//
// Types here carry JSON and DB tags and small validation helpers only. They
// never reference other internal packages, database handles or requests.
package domain
