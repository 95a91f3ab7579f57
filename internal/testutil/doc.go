// Package testutil contains helper utilities used across tests to reduce
// boilerplate when asserting runtime behaviors (captured log output,
// polling for asynchronous conditions). These helpers are intentionally
// minimal and avoid adding third-party dependencies. They are not intended
// for production usage.
package testutil
