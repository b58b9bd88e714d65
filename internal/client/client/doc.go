// Package client talks to the remote user service.
//
// The service speaks the reqres.in dialect:
//
//	GET  /api/users?page=N   -> {"page":N,"total_pages":M,"data":[user...]}
//	GET  /api/users/{id}     -> {"data":user}, 404 when missing
//	POST /api/login          -> {"token":"..."} or 400 {"error":"..."}
//
// Every request carries the configured API key in the x-api-key header.
//
// HTTP failures are mapped onto sentinel errors that callers match with
// errors.Is: ErrUnavailable for transport faults and 5xx, ErrNotFound for
// 404, ErrUnauthorized for 400/401/403 on login.
package client
