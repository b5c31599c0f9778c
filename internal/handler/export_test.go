package handler

// ExtractResponse exposes the unexported extractResponse type to the
// external handler_test package.
type ExtractResponse = extractResponse
