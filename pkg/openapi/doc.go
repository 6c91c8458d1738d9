// Package openapi describes a task's job-execution endpoints as an OpenAPI 3
// document: the GET operation that serves the execution-model XML and the
// form-encoded POST that starts a job. Payload field names come from the same
// registry the submission encoder uses, so the description and the payload
// never drift apart.
package openapi
