// Package domain contains entities without logic, just meta-data.
package domain

type (
	// ConnID identifies one transport connection. Issued by the
	// client-token middleware and stable for the connection's lifetime.
	ConnID string

	// RoomID is a short, human-shareable room identifier.
	RoomID string
)
