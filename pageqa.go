// Package pageqa answers questions about a single web page. It fetches the
// page, extracts its main textual content, asks a hosted language model the
// user's question about that content, and formats the model's answer into
// structured segments with supporting quotes.
//
// This package contains domain types, interfaces, and the pure
// content-extraction and formatting logic, following Ben Johnson's Standard
// Package Layout. Implementations that need third-party dependencies live in
// subdirectories named after them (e.g., goquery/, gemini/, http/).
package pageqa
