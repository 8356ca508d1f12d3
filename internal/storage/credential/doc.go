// Package credential persists saved connections in the storage engine.
//
// Key layout:
//
//	cred/id/<id>      JSON record, password sealed with secretbox
//	cred/name/<name>  the ID carrying that name
//
// Passwords are sealed with the record ID as additional data, so a
// sealed password copied onto another record does not open.
package credential
