// Package api serves a creature collection over HTTP/JSON.
//
// It backs `bestiary serve`, a local stand-in for the remote collection the
// client talks to. Routes, relative to the collection prefix:
//
//	GET    {prefix}?name=term   list, or search by name substring
//	GET    {prefix}/{id}        fetch one record
//	POST   {prefix}             create, responds with the stored record
//	PUT    {prefix}             replace the record named by the body's id
//	PUT    {prefix}/{id}        replace the record with that id
//	DELETE {prefix}/{id}        remove a record
//	GET    /health              liveness
package api
