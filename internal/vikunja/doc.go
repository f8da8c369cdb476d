// Package vikunja is a minimal client for the two Vikunja REST endpoints the
// launcher plugin needs: creating a task and listing lists.
//
// Requests carry the user's API token as a static bearer token. There are no
// retries. Non-success statuses come back as *APIError carrying the status
// code and body; requests that never got a response come back as
// *TransportError.
package vikunja
