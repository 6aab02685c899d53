// Package server exposes docbridge over a small loopback HTTP API.
//
// The API is the programmatic counterpart of the CLI: it converts files by
// path, stages uploaded documents, cleans the staging area, lists supported
// formats, reports whether markitdown is usable, and reads conversion history.
// A file lock under the log directory keeps one server per user, and an
// optional bearer token guards every route.
//
// Routes:
//
//	POST   /api/convert   {input_path, output_path, input_format?, output_format?}
//	GET    /api/formats
//	GET    /api/uploads
//	POST   /api/uploads   {file_name, file_data (base64)}
//	DELETE /api/uploads
//	GET    /api/tool
//	GET    /api/history?limit=N
//	DELETE /api/history
package server
