// Package itemstore is the remote service of record for shopping list items.
//
// Store is the contract the rest of the application depends on. Two
// implementations are provided:
//
//   - Client speaks JSON over HTTP to a REST collection (a `shoplist serve`
//     instance or any compatible API)
//   - MemoryStore keeps items in process and backs offline use, tests and the
//     local server
//
// Failures are reported as *StoreError values carrying an ErrorType. Callers
// use IsRetryable, IsNotFound and ShortMessage rather than inspecting messages.
//
// The Client retries GET, PUT and DELETE on network errors and 5xx responses
// with exponential backoff. POST is sent once.
package itemstore
