// Package submit is the job-server collaborator: it fetches a task's
// execution-model description and posts flattened parameter payloads to the
// task's run endpoint.
package submit
