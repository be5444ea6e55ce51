// Package api handles incoming HTTP requests, request validation and response
// formatting. It acts as an adapter between external clients and the analysis
// service, translating HTTP concerns to the Analyze use case.
//
// Only client input problems produce non-200 responses. Everything that goes
// wrong after a query is accepted is reported inside the analysis body.
package api
