// Package api contains the HTTP handlers, request/response models, and
// error mapping for the task management API. Handlers stay thin: they
// decode and validate input, call a service, and translate the result into
// a sanitized HTTP response.
package api
