// Package logging provides structured logging for shoplist.
//
// It wraps a package-level zap logger. Logging is silent unless a level is
// given, either through Initialize or the SHOPLIST_LOG_LEVEL environment
// variable:
//
//	SHOPLIST_LOG_LEVEL=debug SHOPLIST_LOG_FILE=/tmp/shoplist.log shoplist
//
// The terminal UI owns stdout, so interactive sessions should send logs to a
// file with SHOPLIST_LOG_FILE or --log-file. Otherwise output goes to stderr.
//
// Domain helpers keep field names consistent across packages:
//
//	logging.LogHTTPRequest(requestID, "PUT", url)
//	logging.LogEdit(item.ID, "price", "rolled_back", err)
//
// All functions are safe for concurrent use.
package logging
