package access

import "fmt"

// Messages holds the two message templates shared by every catalogue.
// Success messages start with "Successfully <verb>", failures with
// "Failed to <verb>". The templates are formatting contracts, not
// protocol: tests and reviewers key off the prefixes.
type Messages struct {
	// SuccessFormat formats the resource, e.g.
	// "Successfully read resource at %s".
	SuccessFormat string

	// ResultFormat formats the optional payload appended to a success
	// message, e.g. " with result: %s". Empty payloads are omitted.
	ResultFormat string

	// FailureFormat formats the resource and the offending id, e.g.
	// "Failed to read resource at %s for operation id %d".
	FailureFormat string
}

// Success renders the success message for a resource, appending the
// payload when present.
func (m Messages) Success(resource, payload string) string {
	msg := fmt.Sprintf(m.SuccessFormat, resource)
	if payload != "" && m.ResultFormat != "" {
		msg += fmt.Sprintf(m.ResultFormat, payload)
	}
	return msg
}

// Failure renders the failure message for a resource and method id.
func (m Messages) Failure(resource string, id int) string {
	return fmt.Sprintf(m.FailureFormat, resource, id)
}
